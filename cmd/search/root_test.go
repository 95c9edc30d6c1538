package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lk2023060901/model-search-assistant/internal/modelsearch/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartialFromFlags_OnlyChanged(t *testing.T) {
	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--task", "text-to-image", "--include-restricted"}))

	opts := &searchOptions{task: "text-to-image", includeRestricted: true}
	partial := partialFromFlags(cmd, opts)

	require.NotNil(t, partial.Task)
	assert.Equal(t, "text-to-image", *partial.Task)
	require.NotNil(t, partial.IncludeRestricted)
	assert.True(t, *partial.IncludeRestricted)
	assert.Nil(t, partial.SortBy)
	assert.Nil(t, partial.Language)
	assert.Nil(t, partial.IncludeSpaces)
	assert.Nil(t, partial.IncludeDatasets)
}

func TestRootCmd_JSONOutput(t *testing.T) {
	var gotQuery, gotTask string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		gotTask = r.URL.Query().Get("task")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":"org/small","downloads":5,"likes":1},
			{"id":"org/big","downloads":500,"likes":2},
			{"id":"org/private","downloads":900,"private":true}
		]`))
	}))
	defer srv.Close()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--proxy", srv.URL, "--json", "chat", "model"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "chat model", gotQuery)
	assert.Equal(t, types.DefaultTask, gotTask)

	var resp types.APIResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	require.Len(t, resp.Models, 2)
	assert.Equal(t, "org/big", resp.Models[0].ID)
	assert.Equal(t, "org/small", resp.Models[1].ID)
}

func TestRootCmd_TableOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"org/a","pipeline_tag":"text-generation","downloads":10,"likes":3,"lastModified":"2024-05-01T10:00:00.000Z"}]`))
	}))
	defer srv.Close()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--proxy", srv.URL})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "org/a")
	assert.Contains(t, out.String(), "2024-05-01")
}

func TestRootCmd_FetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--proxy", srv.URL})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, types.FetchErrorMessage, err.Error())
}
