package ssso

import (
	"context"
	"slices"
	"time"
	"unicode/utf8"

	"github.com/delbertbeta/s-sso/domain"
	serrors "github.com/delbertbeta/s-sso/errors"
	"github.com/delbertbeta/s-sso/internal/audit"
	"github.com/delbertbeta/s-sso/log"
	"github.com/google/uuid"
)

// ApplicationInput is the writable part of an application.
type ApplicationInput struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Homepage     string   `json:"homepage"`
	Icon         *string  `json:"icon"`
	RedirectURIs []string `json:"redirect_uris"`
	GrantTypes   []string `json:"grant_types"`
}

// ApplicationService manages the OAuth applications a user owns.
type ApplicationService struct {
	store  domain.Store
	logger log.Logger
	now    func() time.Time
}

func NewApplicationService(store domain.Store, logger log.Logger) *ApplicationService {
	return &ApplicationService{store: store, logger: logger, now: time.Now}
}

// normalize validates input and returns deduplicated redirect URIs and grant types.
func (in *ApplicationInput) normalize() ([]string, []string, error) {
	if n := utf8.RuneCountInString(in.Name); n == 0 || n > maxApplicationName {
		return nil, nil, serrors.NewValidationError("name must be 1 to %d characters", maxApplicationName)
	}
	if utf8.RuneCountInString(in.Description) > maxDescriptionLength {
		return nil, nil, serrors.NewValidationError("description must be at most %d characters", maxDescriptionLength)
	}
	if len(in.RedirectURIs) == 0 {
		return nil, nil, serrors.NewValidationError("at least one redirect uri is required")
	}

	uris := make([]string, 0, len(in.RedirectURIs))
	for _, uri := range in.RedirectURIs {
		if err := validateRedirectURI(uri); err != nil {
			return nil, nil, err
		}
		if !slices.Contains(uris, uri) {
			uris = append(uris, uri)
		}
	}

	grants := []string{domain.GrantTypeAuthorizationCode}
	for _, g := range in.GrantTypes {
		if g != domain.GrantTypeAuthorizationCode {
			return nil, nil, serrors.NewValidationError("grant type %q is not supported", g)
		}
	}
	return uris, grants, nil
}

// Create registers a new application owned by userID.
func (s *ApplicationService) Create(ctx context.Context, userID uint64, in ApplicationInput) (*domain.Application, error) {
	uris, grants, err := in.normalize()
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	app := &domain.Application{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Description:  in.Description,
		Homepage:     in.Homepage,
		Icon:         in.Icon,
		RedirectURIs: uris,
		GrantTypes:   grants,
		CreatorID:    userID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.CreateApplication(ctx, app); err != nil {
		return nil, serrors.NewDatabaseError(err)
	}

	s.logger.Info(ctx, "application created", log.Fields{"application_id": app.ID, "user_id": userID})
	audit.Record(ctx, audit.ActionApplicationCreate, userID, app.ID, nil)
	return app, nil
}

// List returns the applications created by userID.
func (s *ApplicationService) List(ctx context.Context, userID uint64) ([]*domain.Application, error) {
	apps, err := s.store.ListApplicationsByCreator(ctx, userID)
	if err != nil {
		return nil, serrors.NewDatabaseError(err)
	}
	return apps, nil
}

// Get returns an application owned by userID.
func (s *ApplicationService) Get(ctx context.Context, userID uint64, appID string) (*domain.Application, error) {
	app, err := s.store.GetApplication(ctx, appID)
	if err != nil {
		return nil, storeError(err)
	}
	if app.CreatorID != userID {
		return nil, serrors.ErrPermissionDenied
	}
	return app, nil
}

// Update replaces the metadata of an application. Its id and owner never change.
func (s *ApplicationService) Update(ctx context.Context, userID uint64, appID string, in ApplicationInput) (*domain.Application, error) {
	app, err := s.Get(ctx, userID, appID)
	if err != nil {
		return nil, err
	}

	uris, grants, err := in.normalize()
	if err != nil {
		return nil, err
	}

	app.Name = in.Name
	app.Description = in.Description
	app.Homepage = in.Homepage
	app.Icon = in.Icon
	app.RedirectURIs = uris
	app.GrantTypes = grants
	app.UpdatedAt = s.now().UTC()

	if err := s.store.UpdateApplication(ctx, app); err != nil {
		return nil, storeError(err)
	}
	return app, nil
}

// Delete removes an application together with its secrets.
func (s *ApplicationService) Delete(ctx context.Context, userID uint64, appID string) error {
	if _, err := s.Get(ctx, userID, appID); err != nil {
		return err
	}
	if err := s.store.DeleteApplication(ctx, appID); err != nil {
		return storeError(err)
	}
	s.logger.Info(ctx, "application deleted", log.Fields{"application_id": appID, "user_id": userID})
	audit.Record(ctx, audit.ActionApplicationDelete, userID, appID, nil)
	return nil
}

// CreateSecret adds a new client secret. Existing secrets stay valid.
func (s *ApplicationService) CreateSecret(ctx context.Context, userID uint64, appID string) (*domain.ApplicationSecret, error) {
	if _, err := s.Get(ctx, userID, appID); err != nil {
		return nil, err
	}

	secret := &domain.ApplicationSecret{
		ApplicationID: appID,
		Secret:        uuid.NewString(),
		CreatedAt:     s.now().UTC(),
	}
	if err := s.store.CreateApplicationSecret(ctx, secret); err != nil {
		return nil, serrors.NewDatabaseError(err)
	}
	audit.Record(ctx, audit.ActionSecretCreate, userID, appID, nil)
	return secret, nil
}

// ListSecrets returns the secrets of an application.
func (s *ApplicationService) ListSecrets(ctx context.Context, userID uint64, appID string) ([]*domain.ApplicationSecret, error) {
	if _, err := s.Get(ctx, userID, appID); err != nil {
		return nil, err
	}
	secrets, err := s.store.ListApplicationSecrets(ctx, appID)
	if err != nil {
		return nil, serrors.NewDatabaseError(err)
	}
	return secrets, nil
}

// DeleteSecret revokes one secret.
func (s *ApplicationService) DeleteSecret(ctx context.Context, userID uint64, appID string, secretID uint64) error {
	if _, err := s.Get(ctx, userID, appID); err != nil {
		return err
	}
	if err := s.store.DeleteApplicationSecret(ctx, appID, secretID); err != nil {
		return storeError(err)
	}
	audit.Record(ctx, audit.ActionSecretDelete, userID, appID, nil)
	return nil
}
