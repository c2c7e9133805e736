package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"regexp"

	"github.com/yukikurage/school-management-api/internal/dto"
)

func (suite *APITestSuite) TestCreateCourse_MultipartWithCover() {
	w := suite.doMultipart(http.MethodPost, "/courses",
		map[string]string{"name": "Algebra", "level": "1"},
		[]formPart{{field: "cover", filename: "cover.png", content: pngMagic}},
	)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var course dto.CourseDTO
	suite.decode(w, &course)
	suite.Equal("Algebra", course.Name)
	suite.Equal(1, course.Level)
	suite.Require().Len(course.Files, 1)

	cover := course.Files[0]
	suite.Equal("image/png", cover.MimeType)
	suite.Equal("Course", cover.FileableType)
	suite.Equal(course.ID, cover.FileableID)
	suite.Equal("cover.png", cover.Name)
	suite.Regexp(regexp.MustCompile(`^cover-\d+-[0-9a-f-]{36}\.png$`), cover.Path)
	suite.Require().NotNil(course.Cover)
	suite.Equal(cover.URL, *course.Cover)

	stored, err := os.ReadFile(filepath.Join(suite.storage.Dir(), cover.Path))
	suite.Require().NoError(err)
	suite.Equal(pngMagic, stored)
}

func (suite *APITestSuite) TestCreateCourse_MultipartWithFiles() {
	w := suite.doMultipart(http.MethodPost, "/courses",
		map[string]string{"name": "Geometry", "level": "2"},
		[]formPart{
			{field: "files", filename: "a.txt", content: []byte("first")},
			{field: "files", filename: "b.txt", content: []byte("second")},
		},
	)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var course dto.CourseDTO
	suite.decode(w, &course)
	suite.Require().Len(course.Files, 2)
	suite.Equal("a.txt", course.Files[0].Name)
	suite.Equal("b.txt", course.Files[1].Name)
	suite.Nil(course.Cover)
}

func (suite *APITestSuite) TestCreateCourse_Validation() {
	tests := []struct {
		name string
		body map[string]any
		code int
	}{
		{"missing name", map[string]any{"level": 1}, http.StatusBadRequest},
		{"missing level", map[string]any{"name": "Physics"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			w := suite.doJSON(http.MethodPost, "/courses", tt.body, suite.token)
			suite.Equal(tt.code, w.Code, w.Body.String())
		})
	}

	suite.createCourse("Physics", 1)
	w := suite.doJSON(http.MethodPost, "/courses", map[string]any{"name": "Physics", "level": 3}, suite.token)
	suite.Equal(http.StatusConflict, w.Code)

	w = suite.doMultipart(http.MethodPost, "/courses", map[string]string{"name": "Chemistry", "level": "one"}, nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *APITestSuite) TestUpdateCourse_CoverReplacesFiles() {
	w := suite.doMultipart(http.MethodPost, "/courses",
		map[string]string{"name": "Biology", "level": "1"},
		[]formPart{{field: "cover", filename: "old.png", content: pngMagic}},
	)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var created dto.CourseDTO
	suite.decode(w, &created)
	oldPath := created.Files[0].Path

	w = suite.doMultipart(http.MethodPatch, urlf("/courses/%d", created.ID),
		map[string]string{"level": "2"},
		[]formPart{{field: "cover", filename: "new.png", content: pngMagic}},
	)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var updated dto.CourseDTO
	suite.decode(w, &updated)
	suite.Equal("Biology", updated.Name)
	suite.Equal(2, updated.Level)
	suite.Require().Len(updated.Files, 1)
	suite.Equal("new.png", updated.Files[0].Name)
	suite.NoFileExists(filepath.Join(suite.storage.Dir(), oldPath))
}

func (suite *APITestSuite) TestUpdateCourse_JSON() {
	course := suite.createCourse("History", 1)

	w := suite.doJSON(http.MethodPatch, urlf("/courses/%d", course.ID), map[string]any{"name": "World History"}, suite.token)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var updated dto.CourseDTO
	suite.decode(w, &updated)
	suite.Equal("World History", updated.Name)
	suite.Equal(1, updated.Level)
}

func (suite *APITestSuite) TestDeleteCourse() {
	w := suite.doMultipart(http.MethodPost, "/courses",
		map[string]string{"name": "Music", "level": "1"},
		[]formPart{{field: "cover", filename: "cover.png", content: pngMagic}},
	)
	suite.Require().Equal(http.StatusCreated, w.Code)
	var course dto.CourseDTO
	suite.decode(w, &course)

	w = suite.doJSON(http.MethodDelete, urlf("/courses/%d", course.ID), nil, suite.token)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.NoFileExists(filepath.Join(suite.storage.Dir(), course.Files[0].Path))

	w = suite.doJSON(http.MethodGet, urlf("/courses/%d", course.ID), nil, suite.token)
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.doJSON(http.MethodGet, urlf("/courses/%d/files", course.ID), nil, suite.token)
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.doJSON(http.MethodGet, "/files", nil, suite.token)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.JSONEq(`[]`, w.Body.String())
}

func (suite *APITestSuite) TestListCourses_Pagination() {
	for _, name := range []string{"A", "B", "C"} {
		suite.createCourse(name, 1)
	}

	w := suite.doJSON(http.MethodGet, "/courses?page=2&limit=2", nil, suite.token)
	suite.Require().Equal(http.StatusOK, w.Code)

	var courses []dto.CourseDTO
	suite.decode(w, &courses)
	suite.Require().Len(courses, 1)
	suite.Equal("C", courses[0].Name)
}
