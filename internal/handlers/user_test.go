package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/yukikurage/school-management-api/internal/dto"
	apierrors "github.com/yukikurage/school-management-api/internal/errors"
)

func (suite *APITestSuite) TestUsers_CRUD() {
	w := suite.doJSON(http.MethodPost, "/users", map[string]string{
		"email":    "alice@example.com",
		"password": "supersecret",
		"username": "alice",
	}, suite.token)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var created dto.UserDTO
	suite.decode(w, &created)

	w = suite.doJSON(http.MethodGet, "/users", nil, suite.token)
	suite.Require().Equal(http.StatusOK, w.Code)
	var users []dto.UserDTO
	suite.decode(w, &users)
	suite.Len(users, 2)

	w = suite.doJSON(http.MethodPatch, urlf("/users/%d", created.ID), map[string]string{"username": "alice2"}, suite.token)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var updated dto.UserDTO
	suite.decode(w, &updated)
	suite.Equal("alice2", updated.Username)
	suite.Equal("alice@example.com", updated.Email)

	w = suite.doJSON(http.MethodPut, urlf("/users/%d", created.ID), map[string]string{"email": "alice@school.test"}, suite.token)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	suite.decode(w, &updated)
	suite.Equal("alice2", updated.Username)
	suite.Equal("alice@school.test", updated.Email)

	w = suite.doJSON(http.MethodDelete, urlf("/users/%d", created.ID), nil, suite.token)
	suite.Require().Equal(http.StatusOK, w.Code)

	w = suite.doJSON(http.MethodGet, urlf("/users/%d", created.ID), nil, suite.token)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *APITestSuite) TestUsers_InvalidID() {
	w := suite.doJSON(http.MethodGet, "/users/abc", nil, suite.token)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.doJSON(http.MethodGet, "/users/0/files", nil, suite.token)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *APITestSuite) TestUsers_FilesOfMissingUser() {
	w := suite.doJSON(http.MethodGet, "/users/999/files", nil, suite.token)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *APITestSuite) TestCreateUser_BindingErrors() {
	w := suite.doJSON(http.MethodPost, "/users", map[string]string{
		"email":    "not-an-email",
		"password": "supersecret",
	}, suite.token)
	suite.Require().Equal(http.StatusBadRequest, w.Code)

	var body apierrors.APIError
	suite.decode(w, &body)
	suite.Equal(apierrors.ErrCodeInvalidInput, body.Code)
	suite.Equal(map[string]any{"email": "email"}, body.Details)

	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"email":`))
	req.Header.Set("Content-Type", "application/json")
	w = suite.do(req, suite.token)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal(apierrors.ErrCodeInvalidFormat, suite.errorCode(w))
}
