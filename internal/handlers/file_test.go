package handlers

import (
	"net/http"
	"path/filepath"

	"github.com/yukikurage/school-management-api/internal/dto"
)

func (suite *APITestSuite) TestUpload_DefaultsToCourse() {
	course := suite.createCourse("Algebra", 1)

	w := suite.doMultipart(http.MethodPost, "/upload",
		map[string]string{"resource_id": urlf("%d", course.ID)},
		[]formPart{{field: "file", filename: "syllabus.png", content: pngMagic}},
	)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var file dto.FileDTO
	suite.decode(w, &file)
	suite.Equal("Course", file.FileableType)
	suite.Equal(course.ID, file.FileableID)
	suite.Equal("image/png", file.MimeType)

	w = suite.doJSON(http.MethodGet, urlf("/courses/%d/files", course.ID), nil, suite.token)
	suite.Require().Equal(http.StatusOK, w.Code)
	var files []dto.FileDTO
	suite.decode(w, &files)
	suite.Require().Len(files, 1)
	suite.Equal(file.ID, files[0].ID)
}

func (suite *APITestSuite) TestUpload_OwnersAreScopedByType() {
	course := suite.createCourse("Algebra", 1)

	// The course and the registered user share id 1
	w := suite.doMultipart(http.MethodPost, "/upload",
		map[string]string{"resource_type": "User", "resource_id": urlf("%d", course.ID)},
		[]formPart{{field: "file", filename: "avatar.png", content: pngMagic}},
	)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w = suite.doJSON(http.MethodGet, urlf("/courses/%d/files", course.ID), nil, suite.token)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.JSONEq(`[]`, w.Body.String())

	w = suite.doJSON(http.MethodGet, urlf("/users/%d/files", course.ID), nil, suite.token)
	suite.Require().Equal(http.StatusOK, w.Code)
	var files []dto.FileDTO
	suite.decode(w, &files)
	suite.Len(files, 1)
}

func (suite *APITestSuite) TestUpload_Rejects() {
	course := suite.createCourse("Algebra", 1)
	part := []formPart{{field: "file", filename: "a.txt", content: []byte("hi")}}

	tests := []struct {
		name   string
		values map[string]string
		parts  []formPart
		code   int
	}{
		{"missing file", map[string]string{"resource_id": urlf("%d", course.ID)}, nil, http.StatusBadRequest},
		{"missing resource id", map[string]string{}, part, http.StatusBadRequest},
		{"unknown resource type", map[string]string{"resource_type": "Invoice", "resource_id": "1"}, part, http.StatusBadRequest},
		{"missing owner", map[string]string{"resource_id": "999"}, part, http.StatusNotFound},
		{"too large", map[string]string{"resource_id": urlf("%d", course.ID)},
			[]formPart{{field: "file", filename: "big.bin", content: make([]byte, 1<<20+1)}}, http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			w := suite.doMultipart(http.MethodPost, "/upload", tt.values, tt.parts)
			suite.Equal(tt.code, w.Code, w.Body.String())
		})
	}

	w := suite.doJSON(http.MethodPost, "/upload", map[string]any{"resource_id": 1}, suite.token)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *APITestSuite) TestDeleteFile() {
	course := suite.createCourse("Algebra", 1)
	w := suite.doMultipart(http.MethodPost, "/upload",
		map[string]string{"resource_id": urlf("%d", course.ID)},
		[]formPart{{field: "file", filename: "notes.txt", content: []byte("notes")}},
	)
	suite.Require().Equal(http.StatusCreated, w.Code)
	var file dto.FileDTO
	suite.decode(w, &file)
	suite.FileExists(filepath.Join(suite.storage.Dir(), file.Path))

	w = suite.doJSON(http.MethodDelete, urlf("/files/%d", file.ID), nil, suite.token)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.NoFileExists(filepath.Join(suite.storage.Dir(), file.Path))

	w = suite.doJSON(http.MethodDelete, urlf("/files/%d", file.ID), nil, suite.token)
	suite.Equal(http.StatusNotFound, w.Code)
}
