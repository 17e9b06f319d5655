package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetPublicInfoRequestShape(t *testing.T) {
	var gotPath, gotMonth, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMonth = r.URL.Query().Get("month")
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"building_info": {"id": 7, "name": "Oak Court"}}`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, "secret-token")
	require.NoError(t, err)

	payload, err := client.GetPublicInfo(context.Background(), "7", "2026-08")
	require.NoError(t, err)

	require.Equal(t, "/api/public-info/7/", gotPath)
	require.Equal(t, "2026-08", gotMonth)
	require.Equal(t, "Bearer secret-token", gotAuth)
	require.Equal(t, "7", payload.BuildingInfo.ID.String())
	require.Equal(t, "Oak Court", *payload.BuildingInfo.Name)
}

func TestGetPublicInfoErrorMapping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail": "building not found"}`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, "")
	require.NoError(t, err)

	_, err = client.GetPublicInfo(context.Background(), "999", "2026-08")
	require.Error(t, err)

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	require.Contains(t, nf.Message, "building not found")
}

func TestListRecentAnnouncementsEnvelope(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"results": [{"id": 1, "title": "one"}, {"id": 2, "title": "two"}]}`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, "")
	require.NoError(t, err)

	items, err := client.ListRecentAnnouncements(context.Background(), "7", 5)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Contains(t, gotQuery, "building=7")
	require.Contains(t, gotQuery, "page_size=5")
	require.Contains(t, gotQuery, "ordering=-created_at")
}

func TestListRecentAnnouncementsBareArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id": 3, "title": "bare"}]`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, "")
	require.NoError(t, err)

	items, err := client.ListRecentAnnouncements(context.Background(), "7", 5)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "3", items[0].ID.String())
}

func TestCompleteAgendaItemSendsDecision(t *testing.T) {
	var gotPath string
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, "")
	require.NoError(t, err)

	err = client.CompleteAgendaItem(context.Background(), "5", 2, "voting", "approved by majority")
	require.NoError(t, err)

	require.Equal(t, "/api/assemblies/5/agenda/2/complete/", gotPath)
	require.Equal(t, "voting", gotBody["decision_type"])
	require.Equal(t, "approved by majority", gotBody["decision"])
}

func TestEndAssemblyConflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error": "assembly already ended"}`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, "")
	require.NoError(t, err)

	err = client.EndAssembly(context.Background(), "5")
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
}
