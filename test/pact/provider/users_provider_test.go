//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	pacttest "github.com/Apurer/go-gin-user-directory/test/pact"

	"github.com/Apurer/go-gin-user-directory/internal/app/api"
	userhandler "github.com/Apurer/go-gin-user-directory/internal/domains/users/adapters/http/handler"
	usermemory "github.com/Apurer/go-gin-user-directory/internal/domains/users/adapters/memory"
	userobs "github.com/Apurer/go-gin-user-directory/internal/domains/users/adapters/observability"
	userworkflows "github.com/Apurer/go-gin-user-directory/internal/domains/users/adapters/workflows"
	userapp "github.com/Apurer/go-gin-user-directory/internal/domains/users/application"
	usertypes "github.com/Apurer/go-gin-user-directory/internal/domains/users/application/types"
	userports "github.com/Apurer/go-gin-user-directory/internal/domains/users/ports"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/stretchr/testify/require"
)

func TestUsersProviderPact(t *testing.T) {
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	verifier := pactprovider.NewVerifier()
	stateHandlers := models.StateHandlers{
		pacttest.StateUsersBaseline: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.repo.Reset()
			return nil, nil
		},
		pacttest.StateUsersListed: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.repo.Reset()
			if setup {
				app.seed(t, pacttest.ListedFirstName, pacttest.ListedLastName, pacttest.ListedEmail)
			}
			return nil, nil
		},
		pacttest.StateEmailTaken: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.repo.Reset()
			if setup {
				app.seed(t, "Taken", "User", pacttest.TakenEmail)
			}
			return nil, nil
		},
	}

	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
		BeforeEach: func() error {
			app.repo.Reset()
			return nil
		},
	})
	require.NoError(t, err)
}

type contractProviderApp struct {
	repo    *usermemory.Repository
	service userports.Service
	server  *httptest.Server
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()

	repo := usermemory.NewRepository()
	service := userobs.New(userapp.NewService(repo))
	users := userhandler.NewUserAPI(service, userworkflows.NewInlineUserWorkflows(service))
	cfg := api.Config{Port: "8080", CORSAllowedOrigins: []string{"http://localhost:3000"}}
	router := api.NewRouter(cfg, "users-api-pact", slog.Default(), users)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &contractProviderApp{repo: repo, service: service, server: server}
}

func (a *contractProviderApp) seed(t testing.TB, first, last, email string) {
	t.Helper()
	_, err := a.service.CreateUser(context.Background(), usertypes.CreateUserInput{FirstName: first, LastName: last, Email: email})
	require.NoError(t, err)
}
