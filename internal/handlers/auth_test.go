package handlers

import (
	"net/http"

	"github.com/yukikurage/school-management-api/internal/dto"
	apierrors "github.com/yukikurage/school-management-api/internal/errors"
)

func (suite *APITestSuite) TestRegister_ReturnsUser() {
	w := suite.doJSON(http.MethodPost, "/auth/register", map[string]string{
		"email":    "Student@Example.com",
		"password": "supersecret",
		"username": "student",
	}, "")
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var user dto.UserDTO
	suite.decode(w, &user)
	suite.NotZero(user.ID)
	suite.Equal("student@example.com", user.Email)
	suite.Equal("student", user.Username)
	suite.NotContains(w.Body.String(), "password")
}

func (suite *APITestSuite) TestRegister_Rejects() {
	tests := []struct {
		name string
		body map[string]string
		code int
	}{
		{"missing password", map[string]string{"email": "a@example.com"}, http.StatusBadRequest},
		{"short password", map[string]string{"email": "a@example.com", "password": "123"}, http.StatusBadRequest},
		{"duplicate email", map[string]string{"email": "admin@example.com", "password": "supersecret"}, http.StatusConflict},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			w := suite.doJSON(http.MethodPost, "/auth/register", tt.body, "")
			suite.Equal(tt.code, w.Code, w.Body.String())
		})
	}
}

func (suite *APITestSuite) TestLogin_FailuresAreIndistinguishable() {
	unknown := suite.doJSON(http.MethodPost, "/auth/login", map[string]string{
		"email":    "nobody@example.com",
		"password": "supersecret",
	}, "")
	wrong := suite.doJSON(http.MethodPost, "/auth/login", map[string]string{
		"email":    "admin@example.com",
		"password": "not-the-password",
	}, "")

	suite.Equal(http.StatusUnauthorized, unknown.Code)
	suite.Equal(http.StatusUnauthorized, wrong.Code)
	suite.Equal(unknown.Body.String(), wrong.Body.String())
	suite.Equal(apierrors.ErrCodeInvalidCredentials, suite.errorCode(wrong))
}

func (suite *APITestSuite) TestLogin_ReturnsMessageAndToken() {
	w := suite.doJSON(http.MethodPost, "/auth/login", map[string]string{
		"email":    "admin@example.com",
		"password": "supersecret",
	}, "")
	suite.Require().Equal(http.StatusOK, w.Code)

	var resp dto.LoginResponse
	suite.decode(w, &resp)
	suite.Equal("Login successful", resp.Message)
	suite.NotEmpty(resp.Token)
}

func (suite *APITestSuite) TestMe() {
	w := suite.doJSON(http.MethodGet, "/auth/me", nil, suite.token)
	suite.Require().Equal(http.StatusOK, w.Code)

	var user dto.UserDTO
	suite.decode(w, &user)
	suite.Equal("admin@example.com", user.Email)
}

func (suite *APITestSuite) TestProtectedRoutes_RequireToken() {
	w := suite.doJSON(http.MethodGet, "/courses", nil, "")
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Equal(apierrors.ErrCodeUnauthorized, suite.errorCode(w))

	w = suite.doJSON(http.MethodGet, "/courses", nil, "not-a-jwt")
	suite.Equal(http.StatusForbidden, w.Code)
	suite.Equal(apierrors.ErrCodeForbidden, suite.errorCode(w))
}
