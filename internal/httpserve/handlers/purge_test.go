package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/regsweep/internal/config"
	"github.com/bnema/regsweep/internal/registry"
	"github.com/bnema/regsweep/internal/registry/registrytest"
)

func invokePurge(t *testing.T, factory ClientFactory, body string) (*httptest.ResponseRecorder, Response) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/purge", strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := NewPurgeHandler(factory).PostPurge(c)
	require.NoError(t, err)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func fixedFactory(fake *registrytest.Fake) ClientFactory {
	return func(config.Credentials) (registry.Client, error) {
		return fake, nil
	}
}

func TestPostPurge_CompletedRunIs200(t *testing.T) {
	fake := &registrytest.Fake{
		Images: []registry.Image{{ID: "img1", Name: "api", NamespaceID: "ns1"}},
		Tags: map[string][]registry.Tag{
			"img1": {{
				ID:        "tag-a",
				Name:      "v1",
				ImageID:   "img1",
				CreatedAt: time.Now().AddDate(0, 0, -100),
			}},
		},
	}

	rec, resp := invokePurge(t, fixedFactory(fake), `{"REGION": "fr-par"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, http.StatusOK, resp.StatusCode, "wrapper mirrors the HTTP status")

	body, err := json.Marshal(resp.Body)
	require.NoError(t, err)
	var report struct {
		Message []map[string]any `json:"message"`
		Summary struct {
			SuccessfullyDeleted int `json:"successfully_deleted"`
			TotalTagsFound      int `json:"total_tags_found"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(body, &report))

	require.Len(t, report.Message, 1)
	assert.Equal(t, "tag-a", report.Message[0]["tag_id"])
	assert.Equal(t, "deleted", report.Message[0]["status"])
	assert.Equal(t, 1, report.Summary.SuccessfullyDeleted)
	assert.Equal(t, 1, report.Summary.TotalTagsFound)
}

func TestPostPurge_PerItemErrorsStill200(t *testing.T) {
	fake := &registrytest.Fake{
		Images: []registry.Image{{ID: "img1", Name: "api", NamespaceID: "ns1"}},
		Tags: map[string][]registry.Tag{
			"img1": {{
				ID:        "tag-a",
				Name:      "v1",
				ImageID:   "img1",
				CreatedAt: time.Now().AddDate(0, 0, -100),
			}},
		},
		DeleteTagErr: map[string]error{"tag-a": errors.New("boom")},
	}

	rec, _ := invokePurge(t, fixedFactory(fake), `{"REGION": "fr-par"}`)
	assert.Equal(t, http.StatusOK, rec.Code, "isolated failures do not change the transport status")
}

func TestPostPurge_InvalidPatternIs400(t *testing.T) {
	rec, resp := invokePurge(t, fixedFactory(&registrytest.Fake{}),
		`{"REGION": "fr-par", "TAG_NAME_PATTERN": "[unclosed"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body, _ := json.Marshal(resp.Body)
	assert.Contains(t, string(body), "TAG_NAME_PATTERN")
}

func TestPostPurge_MissingRegionIs400(t *testing.T) {
	t.Setenv(config.KeyRegion, "")

	rec, _ := invokePurge(t, fixedFactory(&registrytest.Fake{}), `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPostPurge_FatalEnumerationIs500(t *testing.T) {
	fake := &registrytest.Fake{
		ListImagesErr: errors.New("registry unreachable"),
	}

	rec, resp := invokePurge(t, fixedFactory(fake), `{"REGION": "fr-par"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	body, _ := json.Marshal(resp.Body)
	assert.Contains(t, string(body), "registry unreachable")
}

func TestPostPurge_ClientFactoryFailureIs500(t *testing.T) {
	factory := func(config.Credentials) (registry.Client, error) {
		return nil, errors.New("bad credentials")
	}

	rec, _ := invokePurge(t, factory, `{"REGION": "fr-par"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestPostPurge_OptionsOverrideEnvironment(t *testing.T) {
	t.Setenv(config.KeyRegion, "fr-par")

	fake := &registrytest.Fake{
		Images: []registry.Image{{ID: "img1", Name: "api", NamespaceID: "ns1"}},
		Tags: map[string][]registry.Tag{
			"img1": {{
				ID:        "tag-a",
				Name:      "v1",
				ImageID:   "img1",
				CreatedAt: time.Now().AddDate(0, 0, -100),
			}},
		},
	}

	// Body disables the only active criterion; nothing is deleted.
	rec, _ := invokePurge(t, fixedFactory(fake), `{"DELETE_OLD_TAGS": "false"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, fake.DeletedTags)
}

func TestGetHealth(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	require.NoError(t, GetHealth(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}
