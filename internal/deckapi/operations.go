package deckapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"strings"
)

// Project is the answer to CreateProject.
type Project struct {
	Token string       `json:"token"`
	State ProjectState `json:"state"`
}

// ProjectState describes the slides the service prepared for a project.
type ProjectState struct {
	Slides map[string]json.RawMessage `json:"slides"`
}

// SlideCount returns the number of slides the service reported.
func (p Project) SlideCount() int {
	return len(p.State.Slides)
}

// UploadResult is the answer to UploadDocuments.
type UploadResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Document is one file submitted for upload.
type Document struct {
	Name    string
	Content []byte
}

// CreateProject registers projectID and returns its credential.
func (c *Client) CreateProject(ctx context.Context, projectID string) (Project, error) {
	r, err := jsonRequest("create_project", "create_project", "", false, map[string]string{"project_id": projectID})
	if err != nil {
		return Project{}, err
	}
	var project Project
	if err := c.doJSON(ctx, r, &project); err != nil {
		return Project{}, err
	}
	if strings.TrimSpace(project.Token) == "" {
		return Project{}, &ServiceError{Op: r.op, Message: "response carried no token"}
	}
	return project, nil
}

// UploadDocuments posts docs as multipart documents[] fields.
func (c *Client) UploadDocuments(ctx context.Context, token string, docs []Document) (UploadResult, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, doc := range docs {
		part, err := writer.CreateFormFile("documents[]", doc.Name)
		if err != nil {
			return UploadResult{}, fmt.Errorf("deckapi: upload_documents: %w", err)
		}
		if _, err := part.Write(doc.Content); err != nil {
			return UploadResult{}, fmt.Errorf("deckapi: upload_documents: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return UploadResult{}, fmt.Errorf("deckapi: upload_documents: %w", err)
	}
	r := request{
		op:          "upload_documents",
		path:        "upload_documents",
		token:       token,
		auth:        true,
		body:        &buf,
		contentType: writer.FormDataContentType(),
	}
	var result UploadResult
	if err := c.doJSON(ctx, r, &result); err != nil {
		return UploadResult{}, err
	}
	return result, nil
}

// GenerateSlide asks the service for the content of one slide.
func (c *Client) GenerateSlide(ctx context.Context, token, slide string) (string, error) {
	r, err := jsonRequest("generate_slides", "generate_slides", token, true, map[string]string{"slide": slide})
	if err != nil {
		return "", err
	}
	var payload struct {
		Content *string `json:"content"`
		Error   string  `json:"error"`
	}
	if err := c.doJSON(ctx, r, &payload); err != nil {
		return "", err
	}
	if payload.Error != "" {
		return "", &ServiceError{Op: r.op, Message: payload.Error}
	}
	if payload.Content == nil {
		return "", &ServiceError{Op: r.op, Message: "response carried no content"}
	}
	return *payload.Content, nil
}

// EditSlide applies a natural-language instruction to one slide. Only a
// completed status counts as success.
func (c *Client) EditSlide(ctx context.Context, token, slide, instruction string) (string, error) {
	r, err := jsonRequest("edit_slide", "edit_slide", token, true, map[string]string{
		"slide":        slide,
		"edit_request": instruction,
	})
	if err != nil {
		return "", err
	}
	var payload struct {
		Status  string `json:"status"`
		Content string `json:"content"`
		Error   string `json:"error"`
	}
	if err := c.doJSON(ctx, r, &payload); err != nil {
		return "", err
	}
	if payload.Status != "completed" {
		msg := payload.Error
		if msg == "" {
			msg = fmt.Sprintf("edit status %q", payload.Status)
		}
		return "", &ServiceError{Op: r.op, Message: msg}
	}
	return payload.Content, nil
}

// DeleteProject removes projectID on the service.
func (c *Client) DeleteProject(ctx context.Context, token, projectID string) error {
	r, err := jsonRequest("delete_project", "delete_project", token, true, map[string]string{"project_id": projectID})
	if err != nil {
		return err
	}
	var payload struct {
		Error string `json:"error"`
	}
	if err := c.doJSON(ctx, r, &payload); err != nil {
		return err
	}
	if payload.Error != "" {
		return &ServiceError{Op: r.op, Message: payload.Error}
	}
	return nil
}

// DownloadPDF returns the rendered deck.
func (c *Client) DownloadPDF(ctx context.Context, token string) ([]byte, error) {
	r, err := jsonRequest("download_pdf", "download_pdf", token, true, struct{}{})
	if err != nil {
		return nil, err
	}
	return c.do(ctx, r, c.maxPDF)
}

// SetLanguage tells the service which language to generate in.
func (c *Client) SetLanguage(ctx context.Context, token, language string) error {
	r, err := jsonRequest("set_language", "set_language", token, true, map[string]string{"language": language})
	if err != nil {
		return err
	}
	var payload struct {
		Status string `json:"status"`
		Error  string `json:"error"`
	}
	if err := c.doJSON(ctx, r, &payload); err != nil {
		return err
	}
	if payload.Error != "" {
		return &ServiceError{Op: r.op, Message: payload.Error}
	}
	return nil
}
