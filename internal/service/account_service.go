package service

import (
    "context"
    "errors"
    "time"

    "github.com/golang-jwt/jwt/v5"
    "github.com/google/uuid"
    "golang.org/x/crypto/bcrypt"
    "gorm.io/gorm"

    "github.com/d60-Lab/social-feed/internal/model"
    "github.com/d60-Lab/social-feed/internal/repository"
)

// Profile 个人主页视图
type Profile struct {
    User           *model.User `json:"user"`
    PostCount      int64       `json:"post_count"`
    FollowingCount int64       `json:"following_count"`
    FollowerCount  int64       `json:"follower_count"`
}

// AccountService 账号服务：注册、登录、资料、注销级联
type AccountService interface {
    Register(ctx context.Context, username, email, password, bio string) (*model.User, error)
    Login(ctx context.Context, username, password string) (string, *model.User, error)
    Profile(ctx context.Context, userID string) (*Profile, error)
    // Delete 注销：在一个事务内显式级联删除用户的全部派生数据
    Delete(ctx context.Context, userID string) error
}

type accountService struct {
    db        *gorm.DB
    userRepo  repository.UserRepository
    jwtSecret []byte
    jwtExpire time.Duration
}

func NewAccountService(db *gorm.DB, userRepo repository.UserRepository, jwtSecret string, jwtExpire time.Duration) AccountService {
    return &accountService{db: db, userRepo: userRepo, jwtSecret: []byte(jwtSecret), jwtExpire: jwtExpire}
}

func (s *accountService) Register(ctx context.Context, username, email, password, bio string) (*model.User, error) {
    // 先查用户名；唯一键冲突只剩 email 一种来源
    if _, err := s.userRepo.GetByUsername(ctx, username); err == nil {
        return nil, ErrUsernameTaken
    } else if !errors.Is(err, gorm.ErrRecordNotFound) {
        return nil, err
    }
    hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
    if err != nil {
        return nil, err
    }
    u := &model.User{
        ID:       uuid.New().String(),
        Username: username,
        Email:    email,
        Password: string(hash),
        Bio:      bio,
    }
    if err := s.userRepo.Create(ctx, u); err != nil {
        if errors.Is(err, gorm.ErrDuplicatedKey) {
            return nil, ErrEmailTaken
        }
        return nil, err
    }
    return u, nil
}

func (s *accountService) Login(ctx context.Context, username, password string) (string, *model.User, error) {
    u, err := s.userRepo.GetByUsername(ctx, username)
    if err != nil {
        if errors.Is(err, gorm.ErrRecordNotFound) {
            return "", nil, ErrInvalidCredentials
        }
        return "", nil, err
    }
    if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
        return "", nil, ErrInvalidCredentials
    }
    now := time.Now()
    token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
        Subject:   u.ID,
        IssuedAt:  jwt.NewNumericDate(now),
        ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpire)),
    })
    signed, err := token.SignedString(s.jwtSecret)
    if err != nil {
        return "", nil, err
    }
    return signed, u, nil
}

func (s *accountService) Profile(ctx context.Context, userID string) (*Profile, error) {
    u, err := s.userRepo.GetByID(ctx, userID)
    if err != nil {
        if errors.Is(err, gorm.ErrRecordNotFound) {
            return nil, ErrUserNotFound
        }
        return nil, err
    }
    p := &Profile{User: u}
    if err := s.db.WithContext(ctx).Model(&model.Post{}).Where("author_id = ?", userID).Count(&p.PostCount).Error; err != nil {
        return nil, err
    }
    if err := s.db.WithContext(ctx).Model(&model.Follow{}).Where("follower_id = ?", userID).Count(&p.FollowingCount).Error; err != nil {
        return nil, err
    }
    if err := s.db.WithContext(ctx).Model(&model.Follow{}).Where("followee_id = ?", userID).Count(&p.FollowerCount).Error; err != nil {
        return nil, err
    }
    return p, nil
}

// Delete 级联顺序：帖子的评论/点赞/inbox/outbox → 帖子 → 自己发出的评论与点赞 →
// 双向关注边与冗余粉丝边 → 自己的 inbox → 相关通知 → 用户本体。
// 事务内复用 tx 作用域的 repository 级联助手。
func (s *accountService) Delete(ctx context.Context, userID string) error {
    return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
        exists, err := repository.NewUserRepository(tx).Exists(ctx, userID)
        if err != nil {
            return err
        }
        if !exists {
            return ErrUserNotFound
        }

        var postIDs []string
        if err := tx.Model(&model.Post{}).Where("author_id = ?", userID).Pluck("id", &postIDs).Error; err != nil {
            return err
        }
        inboxRepo := repository.NewInboxRepository(tx)
        if len(postIDs) > 0 {
            if err := tx.Where("post_id IN ?", postIDs).Delete(&model.Comment{}).Error; err != nil {
                return err
            }
            if err := tx.Where("post_id IN ?", postIDs).Delete(&model.Like{}).Error; err != nil {
                return err
            }
            for _, postID := range postIDs {
                if err := inboxRepo.DeleteByPost(ctx, postID); err != nil {
                    return err
                }
            }
            if err := tx.Where("post_id IN ?", postIDs).Delete(&model.Outbox{}).Error; err != nil {
                return err
            }
            if err := tx.Where("author_id = ?", userID).Delete(&model.Post{}).Error; err != nil {
                return err
            }
        }
        if err := tx.Where("author_id = ?", userID).Delete(&model.Comment{}).Error; err != nil {
            return err
        }
        if err := tx.Where("user_id = ?", userID).Delete(&model.Like{}).Error; err != nil {
            return err
        }
        if err := repository.NewFollowRepository(tx).DeleteAllOf(ctx, userID); err != nil {
            return err
        }
        if err := repository.NewFanRepository(tx).DeleteAllOf(ctx, userID); err != nil {
            return err
        }
        if err := inboxRepo.DeleteByUser(ctx, userID); err != nil {
            return err
        }
        if err := tx.Where("recipient_id = ? OR actor_id = ?", userID, userID).Delete(&model.Notification{}).Error; err != nil {
            return err
        }
        return tx.Where("id = ?", userID).Delete(&model.User{}).Error
    })
}
