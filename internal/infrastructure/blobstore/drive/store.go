// Package drive provides a BlobStore backed by the Google Drive
// application data folder, used for cross-device state sync.
package drive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/ersonp/novelstate/internal/infrastructure/config"
)

// appDataFolder is the Drive alias for the hidden per-app storage space.
const appDataFolder = "appDataFolder"

// Store implements ports.BlobStore on Google Drive. Blob keys map to file
// names inside the app data folder; Drive file names may contain slashes,
// so keys are stored verbatim.
type Store struct {
	service *drive.Service
}

// NewStore builds a Drive store from stored OAuth credentials. The
// credentials file is the OAuth client downloaded from the Google Cloud
// console; the token file holds the user grant obtained out of band.
func NewStore(ctx context.Context, cfg config.DriveConfig) (*Store, error) {
	if cfg.CredentialsFile == "" {
		return nil, errors.New("drive credentials file is required")
	}
	if cfg.TokenFile == "" {
		return nil, errors.New("drive token file is required")
	}

	credentials, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("reading drive credentials: %w", err)
	}

	oauthCfg, err := google.ConfigFromJSON(credentials, drive.DriveAppdataScope)
	if err != nil {
		return nil, fmt.Errorf("parsing drive credentials: %w", err)
	}

	token, err := loadToken(cfg.TokenFile)
	if err != nil {
		return nil, err
	}

	service, err := drive.NewService(ctx, option.WithHTTPClient(oauthCfg.Client(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("creating drive service: %w", err)
	}

	return &Store{service: service}, nil
}

// NewStoreWithService wraps an existing Drive service (used in tests).
func NewStoreWithService(service *drive.Service) *Store {
	return &Store{service: service}
}

func loadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading drive token: %w", err)
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("parsing drive token: %w", err)
	}
	return &token, nil
}

// Get returns the blob for key, or (nil, nil) when the key is absent.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	fileID, err := s.findFile(ctx, key)
	if err != nil {
		return nil, err
	}
	if fileID == "" {
		return nil, nil
	}

	resp, err := s.service.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("downloading blob %s: %w", key, err)
	}
	defer resp.Body.Close()

	blob, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading blob %s: %w", key, err)
	}
	return blob, nil
}

// Put stores the blob under key, overwriting any previous value.
func (s *Store) Put(ctx context.Context, key string, blob []byte) error {
	fileID, err := s.findFile(ctx, key)
	if err != nil {
		return err
	}

	if fileID != "" {
		_, err = s.service.Files.Update(fileID, &drive.File{}).
			Media(strings.NewReader(string(blob))).
			Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("updating blob %s: %w", key, err)
		}
		return nil
	}

	_, err = s.service.Files.Create(&drive.File{
		Name:    key,
		Parents: []string{appDataFolder},
	}).Media(strings.NewReader(string(blob))).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("creating blob %s: %w", key, err)
	}
	return nil
}

// Delete removes the blob for key. Deleting an absent key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	fileID, err := s.findFile(ctx, key)
	if err != nil {
		return err
	}
	if fileID == "" {
		return nil
	}

	if err := s.service.Files.Delete(fileID).Context(ctx).Do(); err != nil && !isNotFound(err) {
		return fmt.Errorf("deleting blob %s: %w", key, err)
	}
	return nil
}

// List returns all stored keys with the given prefix. Drive queries only
// support substring matching on names, so the prefix is enforced here.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	pageToken := ""
	for {
		call := s.service.Files.List().
			Spaces(appDataFolder).
			Fields("nextPageToken, files(name)").
			PageSize(100).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		page, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("listing blobs: %w", err)
		}

		for _, f := range page.Files {
			if strings.HasPrefix(f.Name, prefix) {
				keys = append(keys, f.Name)
			}
		}

		pageToken = page.NextPageToken
		if pageToken == "" {
			break
		}
	}
	return keys, nil
}

// findFile resolves a blob key to its Drive file ID, or "" when absent.
func (s *Store) findFile(ctx context.Context, key string) (string, error) {
	query := fmt.Sprintf("name = '%s' and trashed = false", strings.ReplaceAll(key, "'", `\'`))
	page, err := s.service.Files.List().
		Spaces(appDataFolder).
		Q(query).
		Fields("files(id)").
		PageSize(1).
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("looking up blob %s: %w", key, err)
	}
	if len(page.Files) == 0 {
		return "", nil
	}
	return page.Files[0].Id, nil
}

func isNotFound(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == 404
}
