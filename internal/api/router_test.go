package api

import (
    "bytes"
    "encoding/json"
    "fmt"
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/gin-gonic/gin"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
    "gorm.io/driver/sqlite"
    "gorm.io/gorm"
    gormlogger "gorm.io/gorm/logger"

    "github.com/d60-Lab/social-feed/config"
    "github.com/d60-Lab/social-feed/internal/api/handler"
    "github.com/d60-Lab/social-feed/internal/model"
    "github.com/d60-Lab/social-feed/internal/repository"
    "github.com/d60-Lab/social-feed/internal/service"
)

type apiResponse struct {
    Code    int             `json:"code"`
    Message string          `json:"message"`
    Data    json.RawMessage `json:"data"`
}

func setupRouter(t *testing.T) *gin.Engine {
    t.Helper()
    gin.SetMode(gin.TestMode)

    dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
    db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
        TranslateError: true,
        Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
    })
    require.NoError(t, err)
    require.NoError(t, db.AutoMigrate(
        &model.User{}, &model.Follow{}, &model.Fan{},
        &model.Post{}, &model.Comment{}, &model.Like{}, &model.Notification{},
        &model.Inbox{}, &model.Outbox{},
    ))

    cfg := &config.Config{}
    cfg.Server.Mode = "debug"
    cfg.JWT.Secret = "test-secret"
    cfg.Feed.Mode = service.FeedModePull
    cfg.Feed.PageSize = 20

    userRepo := repository.NewUserRepository(db)
    postRepo := repository.NewPostRepository(db)

    h := handler.New(
        service.NewAccountService(db, userRepo, cfg.JWT.Secret, time.Hour),
        service.NewRelationshipService(userRepo, repository.NewFollowRepository(db), repository.NewFanRepository(db), nil, nil),
        service.NewPostService(db, postRepo, repository.NewLikeRepository(db), repository.NewCommentRepository(db), false),
        service.NewFeedService(postRepo, repository.NewInboxRepository(db), cfg.Feed.Mode, cfg.Feed.PageSize),
        service.NewNotificationService(repository.NewNotificationRepository(db)),
    )
    return NewRouter(cfg, h)
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) (*httptest.ResponseRecorder, apiResponse) {
    t.Helper()
    var buf bytes.Buffer
    if body != nil {
        require.NoError(t, json.NewEncoder(&buf).Encode(body))
    }
    req := httptest.NewRequest(method, path, &buf)
    req.Header.Set("Content-Type", "application/json")
    if token != "" {
        req.Header.Set("Authorization", "Bearer "+token)
    }
    w := httptest.NewRecorder()
    r.ServeHTTP(w, req)
    var resp apiResponse
    if w.Body.Len() > 0 {
        _ = json.Unmarshal(w.Body.Bytes(), &resp)
    }
    return w, resp
}

func registerAndLogin(t *testing.T, r *gin.Engine, username string) (id, token string) {
    t.Helper()
    w, _ := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", "", gin.H{
        "username": username,
        "email":    username + "@example.com",
        "password": "password123",
    })
    require.Equal(t, http.StatusCreated, w.Code)

    w, resp := doJSON(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{
        "username": username,
        "password": "password123",
    })
    require.Equal(t, http.StatusOK, w.Code)
    var data struct {
        ID    string `json:"id"`
        Token string `json:"token"`
    }
    require.NoError(t, json.Unmarshal(resp.Data, &data))
    return data.ID, data.Token
}

func TestMutationsRequireAuth(t *testing.T) {
    r := setupRouter(t)
    w, _ := doJSON(t, r, http.MethodPost, "/api/v1/posts", "", gin.H{"content": "x"})
    assert.Equal(t, http.StatusUnauthorized, w.Code)

    w, _ = doJSON(t, r, http.MethodGet, "/api/v1/feed", "", nil)
    assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterValidation(t *testing.T) {
    r := setupRouter(t)
    // 非法用户名（带空格）被 binding 规则拒掉
    w, _ := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", "", gin.H{
        "username": "bad name",
        "email":    "x@example.com",
        "password": "password123",
    })
    assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFollowAndFeedFlow(t *testing.T) {
    r := setupRouter(t)
    aliceID, aliceTok := registerAndLogin(t, r, "alice")
    bobID, bobTok := registerAndLogin(t, r, "bob")

    // 自关注 400
    w, _ := doJSON(t, r, http.MethodPost, "/api/v1/users/"+aliceID+"/follow", aliceTok, nil)
    assert.Equal(t, http.StatusBadRequest, w.Code)

    // alice 关注 bob
    w, _ = doJSON(t, r, http.MethodPost, "/api/v1/users/"+bobID+"/follow", aliceTok, nil)
    require.Equal(t, http.StatusOK, w.Code)

    // bob 发帖
    w, resp := doJSON(t, r, http.MethodPost, "/api/v1/posts", bobTok, gin.H{"content": "hello world"})
    require.Equal(t, http.StatusCreated, w.Code)
    var post model.Post
    require.NoError(t, json.Unmarshal(resp.Data, &post))

    // alice 的 feed 有这篇；bob 自己的 feed 是空的
    w, resp = doJSON(t, r, http.MethodGet, "/api/v1/feed", aliceTok, nil)
    require.Equal(t, http.StatusOK, w.Code)
    var feed service.FeedPage
    require.NoError(t, json.Unmarshal(resp.Data, &feed))
    require.Len(t, feed.Posts, 1)
    assert.Equal(t, post.ID, feed.Posts[0].ID)

    w, resp = doJSON(t, r, http.MethodGet, "/api/v1/feed", bobTok, nil)
    require.Equal(t, http.StatusOK, w.Code)
    require.NoError(t, json.Unmarshal(resp.Data, &feed))
    assert.Empty(t, feed.Posts)

    // alice 点赞 → bob 收到一条通知
    w, _ = doJSON(t, r, http.MethodPost, "/api/v1/posts/"+post.ID+"/like", aliceTok, nil)
    require.Equal(t, http.StatusOK, w.Code)
    w, _ = doJSON(t, r, http.MethodPost, "/api/v1/posts/"+post.ID+"/like", aliceTok, nil)
    require.Equal(t, http.StatusOK, w.Code)

    w, resp = doJSON(t, r, http.MethodGet, "/api/v1/notifications", bobTok, nil)
    require.Equal(t, http.StatusOK, w.Code)
    var notifData struct {
        List []model.Notification `json:"list"`
    }
    require.NoError(t, json.Unmarshal(resp.Data, &notifData))
    require.Len(t, notifData.List, 1)
    assert.Equal(t, model.VerbLikedPost, notifData.List[0].Verb)
    assert.Equal(t, aliceID, notifData.List[0].ActorID)

    // 取消两次：第二次 400
    w, _ = doJSON(t, r, http.MethodPost, "/api/v1/posts/"+post.ID+"/unlike", aliceTok, nil)
    assert.Equal(t, http.StatusOK, w.Code)
    w, _ = doJSON(t, r, http.MethodPost, "/api/v1/posts/"+post.ID+"/unlike", aliceTok, nil)
    assert.Equal(t, http.StatusBadRequest, w.Code)

    // 点赞不存在的帖子 404
    w, _ = doJSON(t, r, http.MethodPost, "/api/v1/posts/nope/like", aliceTok, nil)
    assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCommentFlow(t *testing.T) {
    r := setupRouter(t)
    _, aliceTok := registerAndLogin(t, r, "alice")
    _, bobTok := registerAndLogin(t, r, "bob")

    w, resp := doJSON(t, r, http.MethodPost, "/api/v1/posts", bobTok, gin.H{"content": "hot take"})
    require.Equal(t, http.StatusCreated, w.Code)
    var post model.Post
    require.NoError(t, json.Unmarshal(resp.Data, &post))

    // 评论需要登录
    w, _ = doJSON(t, r, http.MethodPost, "/api/v1/posts/"+post.ID+"/comments", "", gin.H{"content": "x"})
    assert.Equal(t, http.StatusUnauthorized, w.Code)

    w, resp = doJSON(t, r, http.MethodPost, "/api/v1/posts/"+post.ID+"/comments", aliceTok, gin.H{"content": "disagree"})
    require.Equal(t, http.StatusCreated, w.Code)
    var cm model.Comment
    require.NoError(t, json.Unmarshal(resp.Data, &cm))

    // 评论列表公开可读
    w, resp = doJSON(t, r, http.MethodGet, "/api/v1/posts/"+post.ID+"/comments", "", nil)
    require.Equal(t, http.StatusOK, w.Code)
    var commentData struct {
        List []model.Comment `json:"list"`
    }
    require.NoError(t, json.Unmarshal(resp.Data, &commentData))
    require.Len(t, commentData.List, 1)
    assert.Equal(t, "disagree", commentData.List[0].Content)

    // 帖子作者收到评论通知
    w, resp = doJSON(t, r, http.MethodGet, "/api/v1/notifications", bobTok, nil)
    require.Equal(t, http.StatusOK, w.Code)
    var notifData struct {
        List []model.Notification `json:"list"`
    }
    require.NoError(t, json.Unmarshal(resp.Data, &notifData))
    require.Len(t, notifData.List, 1)
    assert.Equal(t, model.VerbCommentedPost, notifData.List[0].Verb)

    // 帖子作者可删帖子下的评论；重复删 404
    w, _ = doJSON(t, r, http.MethodDelete, "/api/v1/comments/"+cm.ID, bobTok, nil)
    assert.Equal(t, http.StatusOK, w.Code)
    w, _ = doJSON(t, r, http.MethodDelete, "/api/v1/comments/"+cm.ID, bobTok, nil)
    assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProfileAndFollowers(t *testing.T) {
    r := setupRouter(t)
    aliceID, aliceTok := registerAndLogin(t, r, "alice")
    bobID, _ := registerAndLogin(t, r, "bob")

    w, _ := doJSON(t, r, http.MethodPost, "/api/v1/users/"+bobID+"/follow", aliceTok, nil)
    require.Equal(t, http.StatusOK, w.Code)

    w, resp := doJSON(t, r, http.MethodGet, "/api/v1/users/"+bobID+"/followers", "", nil)
    require.Equal(t, http.StatusOK, w.Code)
    var data struct {
        List []struct {
            ID string `json:"id"`
        } `json:"list"`
    }
    require.NoError(t, json.Unmarshal(resp.Data, &data))
    require.Len(t, data.List, 1)
    assert.Equal(t, aliceID, data.List[0].ID)

    w, _ = doJSON(t, r, http.MethodGet, "/api/v1/users/ghost", "", nil)
    assert.Equal(t, http.StatusNotFound, w.Code)
}
