package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/johe/social-app/internal/domain"
	"github.com/johe/social-app/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostEndpoints_Ownership(t *testing.T) {
	ts := testutil.NewTestServer(t)

	author, authorToken, _ := testutil.NewUserBuilder().BuildAndLogin(t, ts)
	_, otherToken, _ := testutil.NewUserBuilder().BuildAndLogin(t, ts)
	_, adminToken, _ := testutil.NewUserBuilder().WithRole(domain.RoleAdmin).BuildAndLogin(t, ts)

	t.Run("author can edit", func(t *testing.T) {
		post := testutil.NewPostBuilder().WithAuthor(author).Build(t, ts.DB.DB)

		req := testutil.CreateAuthenticatedRequest(t, http.MethodPatch, ts.APIURL("/posts/"+post.ID.String()),
			map[string]string{"text": "edited"}, authorToken)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var body struct {
			Text string `json:"text"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "edited", body.Text)
	})

	t.Run("non-author cannot edit", func(t *testing.T) {
		post := testutil.NewPostBuilder().WithAuthor(author).Build(t, ts.DB.DB)

		req := testutil.CreateAuthenticatedRequest(t, http.MethodPatch, ts.APIURL("/posts/"+post.ID.String()),
			map[string]string{"text": "hijacked"}, otherToken)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		testutil.AssertStatusCode(t, resp, http.StatusForbidden)
	})

	t.Run("non-author cannot delete", func(t *testing.T) {
		post := testutil.NewPostBuilder().WithAuthor(author).Build(t, ts.DB.DB)

		req := testutil.CreateAuthenticatedRequest(t, http.MethodDelete, ts.APIURL("/posts/"+post.ID.String()), nil, otherToken)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		testutil.AssertStatusCode(t, resp, http.StatusForbidden)
	})

	t.Run("admin can delete any post", func(t *testing.T) {
		post := testutil.NewPostBuilder().WithAuthor(author).Build(t, ts.DB.DB)

		req := testutil.CreateAuthenticatedRequest(t, http.MethodDelete, ts.APIURL("/posts/"+post.ID.String()), nil, adminToken)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		testutil.AssertStatusCode(t, resp, http.StatusNoContent)

		// The post is gone
		getReq := testutil.CreateAuthenticatedRequest(t, http.MethodGet, ts.APIURL("/posts/"+post.ID.String()), nil, authorToken)
		getResp, err := http.DefaultClient.Do(getReq)
		require.NoError(t, err)
		defer getResp.Body.Close()
		testutil.AssertStatusCode(t, getResp, http.StatusNotFound)
	})

	t.Run("unauthenticated request is rejected", func(t *testing.T) {
		req := testutil.CreateAuthenticatedRequest(t, http.MethodGet, ts.APIURL("/posts"), nil, "")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		testutil.AssertStatusCode(t, resp, http.StatusUnauthorized)
	})
}

func TestAdminEndpoints_RoleGate(t *testing.T) {
	ts := testutil.NewTestServer(t)

	member, memberToken, _ := testutil.NewUserBuilder().BuildAndLogin(t, ts)
	_, adminToken, _ := testutil.NewUserBuilder().WithRole(domain.RoleAdmin).BuildAndLogin(t, ts)

	t.Run("member is forbidden", func(t *testing.T) {
		req := testutil.CreateAuthenticatedRequest(t, http.MethodGet, ts.APIURL("/admin/users"), nil, memberToken)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		testutil.AssertStatusCode(t, resp, http.StatusForbidden)
	})

	t.Run("admin lists users", func(t *testing.T) {
		req := testutil.CreateAuthenticatedRequest(t, http.MethodGet, ts.APIURL("/admin/users"), nil, adminToken)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var users []struct {
			ID    string `json:"id"`
			Email string `json:"email"`
			Role  string `json:"role"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&users))
		assert.Len(t, users, 2)
	})

	t.Run("admin promotes a member", func(t *testing.T) {
		req := testutil.CreateAuthenticatedRequest(t, http.MethodPatch, ts.APIURL("/admin/users/"+member.ID.String()),
			map[string]string{"role": "ADMIN"}, adminToken)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var body struct {
			Role string `json:"role"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "ADMIN", body.Role)
	})

	t.Run("invalid role value", func(t *testing.T) {
		req := testutil.CreateAuthenticatedRequest(t, http.MethodPatch, ts.APIURL("/admin/users/"+member.ID.String()),
			map[string]string{"role": "SUPERUSER"}, adminToken)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		testutil.AssertStatusCode(t, resp, http.StatusBadRequest)
	})

	t.Run("delete revokes the user's sessions", func(t *testing.T) {
		victim, _, victimCookie := testutil.NewUserBuilder().BuildAndLogin(t, ts)

		req := testutil.CreateAuthenticatedRequest(t, http.MethodDelete, ts.APIURL("/admin/users/"+victim.ID.String()), nil, adminToken)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		testutil.AssertStatusCode(t, resp, http.StatusNoContent)

		refreshed := postWithCookie(t, ts.APIURL("/auth/refresh"), victimCookie)
		defer refreshed.Body.Close()
		testutil.AssertStatusCode(t, refreshed, http.StatusUnauthorized)
	})
}
