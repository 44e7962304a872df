// internal/tests/api_test.go
package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/zaukho/zaukho-backend/internal/config"
	"github.com/zaukho/zaukho-backend/internal/models"
	"github.com/zaukho/zaukho-backend/internal/router"
	"github.com/zaukho/zaukho-backend/internal/utils"
)

type fakeTokenStore struct {
	mtx     sync.Mutex
	revoked map[string]bool
}

func (s *fakeTokenStore) BlacklistToken(_ context.Context, tokenID string, _ time.Duration) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.revoked[tokenID] = true
	return nil
}

func (s *fakeTokenStore) IsTokenBlacklisted(_ context.Context, tokenID string) (bool, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.revoked[tokenID], nil
}

type APITestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine

	memberToken string
	adminToken  string
}

func (suite *APITestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file:apitest?mode=memory&cache=shared"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	suite.Require().NoError(err)
	suite.Require().NoError(db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Movie{},
		&models.TVSeries{},
		&models.Season{},
		&models.Episode{},
		&models.Purchase{},
		&models.Rental{},
	))
	suite.db = db

	cfg := &config.Config{
		Environment: "test",
		JWT: config.JWTConfig{
			SecretKey:       "api-test-secret",
			AccessTokenTTL:  1,
			RefreshTokenTTL: 24,
		},
	}

	suite.router = router.Initialize(db, &fakeTokenStore{revoked: make(map[string]bool)}, cfg)

	// Seed one member and one admin and mint their tokens directly; the auth
	// endpoints get their own focused test below.
	member := &models.User{Username: "member", Email: "member@example.com", UserType: models.UserTypeMember}
	suite.Require().NoError(member.SetPassword("secret123"))
	suite.Require().NoError(db.Create(member).Error)

	admin := &models.User{Username: "root", Email: "root@example.com", UserType: models.UserTypeAdmin}
	suite.Require().NoError(admin.SetPassword("secret123"))
	suite.Require().NoError(db.Create(admin).Error)

	suite.memberToken, err = utils.GenerateJWT(member.ID, member.Username, string(member.UserType), 1)
	suite.Require().NoError(err)
	suite.adminToken, err = utils.GenerateJWT(admin.ID, admin.Username, string(admin.UserType), 1)
	suite.Require().NoError(err)
}

func (suite *APITestSuite) request(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != nil {
		jsonData, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewBuffer(jsonData)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *APITestSuite) decode(w *httptest.ResponseRecorder) map[string]interface{} {
	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func (suite *APITestSuite) TestHealthCheck() {
	w := suite.request("GET", "/health", "", nil)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *APITestSuite) TestRegisterLoginLogoutFlow() {
	w := suite.request("POST", "/v1/auth/register", "", map[string]interface{}{
		"username":         "newuser",
		"email":            "newuser@example.com",
		"password":         "secret123",
		"password_confirm": "secret123",
	})
	suite.Require().Equal(http.StatusCreated, w.Code)
	response := suite.decode(w)
	suite.True(response["success"].(bool))

	w = suite.request("POST", "/v1/auth/login", "", map[string]interface{}{
		"identifier": "newuser",
		"password":   "secret123",
	})
	suite.Require().Equal(http.StatusOK, w.Code)
	data := suite.decode(w)["data"].(map[string]interface{})
	refreshToken := data["refresh_token"].(string)
	accessToken := data["token"].(string)
	suite.NotEmpty(accessToken)

	w = suite.request("POST", "/v1/auth/logout", accessToken, map[string]interface{}{
		"refresh": refreshToken,
	})
	suite.Equal(http.StatusOK, w.Code)

	// The blacklisted refresh token is now unusable
	w = suite.request("POST", "/v1/auth/token/refresh", "", map[string]interface{}{
		"refresh": refreshToken,
	})
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *APITestSuite) TestCatalogAccessControl() {
	movieBody := map[string]interface{}{
		"title":            "Collateral",
		"description":      "one night in LA",
		"release_date":     "2004-08-06",
		"duration_minutes": 120,
		"price_buy":        9.99,
		"price_rent":       3.99,
	}

	// Anonymous write is 401, member write is 403, admin write is 201
	w := suite.request("POST", "/v1/movies", "", movieBody)
	suite.Equal(http.StatusUnauthorized, w.Code)

	w = suite.request("POST", "/v1/movies", suite.memberToken, movieBody)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.request("POST", "/v1/movies", suite.adminToken, movieBody)
	suite.Require().Equal(http.StatusCreated, w.Code)

	// Anonymous read is fine
	w = suite.request("GET", "/v1/movies", "", nil)
	suite.Equal(http.StatusOK, w.Code)
	response := suite.decode(w)
	suite.True(response["success"].(bool))
	suite.NotEmpty(w.Header().Get("X-Total-Count"))
}

func (suite *APITestSuite) TestPurchaseAndLibraryFlow() {
	w := suite.request("POST", "/v1/movies", suite.adminToken, map[string]interface{}{
		"title":            "Ronin",
		"description":      "a briefcase",
		"release_date":     "1998-09-25",
		"duration_minutes": 122,
		"price_buy":        7.99,
		"price_rent":       2.99,
	})
	suite.Require().Equal(http.StatusCreated, w.Code)
	movie := suite.decode(w)["data"].(map[string]interface{})["movie"].(map[string]interface{})
	movieID := movie["id"].(string)

	// Anonymous cannot buy
	w = suite.request("POST", "/v1/purchases", "", map[string]interface{}{
		"content_type": "movie",
		"movie_id":     movieID,
		"amount":       7.99,
	})
	suite.Equal(http.StatusUnauthorized, w.Code)

	w = suite.request("POST", "/v1/purchases", suite.memberToken, map[string]interface{}{
		"content_type": "movie",
		"movie_id":     movieID,
		"amount":       7.99,
	})
	suite.Require().Equal(http.StatusCreated, w.Code)
	purchase := suite.decode(w)["data"].(map[string]interface{})["purchase"].(map[string]interface{})
	suite.NotEmpty(purchase["transaction_id"])

	w = suite.request("GET", "/v1/library", suite.memberToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	library := suite.decode(w)["data"].(map[string]interface{})["library"].(map[string]interface{})
	purchases := library["purchases"].([]interface{})
	suite.NotEmpty(purchases)
}

func (suite *APITestSuite) TestValidationErrorShape() {
	w := suite.request("POST", "/v1/purchases", suite.memberToken, map[string]interface{}{
		"content_type": "movie",
		"amount":       7.99,
	})
	suite.Require().Equal(http.StatusBadRequest, w.Code)

	response := suite.decode(w)
	suite.False(response["success"].(bool))
	apiErr := response["error"].(map[string]interface{})
	suite.Equal("VALIDATION_ERROR", apiErr["code"])
	suite.NotNil(apiErr["details"])
}

func (suite *APITestSuite) TestUnknownResourceIs404() {
	w := suite.request("GET", "/v1/movies/6a7bba06-0000-0000-0000-000000000000", "", nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}
