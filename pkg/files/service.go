package files

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/dmitrymomot/filemanager/pkg/blob"
	"github.com/dmitrymomot/filemanager/pkg/logger"
)

// Dispatcher hands derivative work off to a background pipeline. Dispatch must
// not block; a returned error means the job was not accepted.
type Dispatcher interface {
	Dispatch(ctx context.Context, userID, fileID string) error
}

// UploadInput describes a new node.
type UploadInput struct {
	OwnerID  string
	Name     string
	Kind     Kind
	ParentID string
	IsPublic bool
	// Data is the base64-encoded content; required for files and images.
	Data string
}

// FetchInput identifies the content to read.
type FetchInput struct {
	// RequesterID is empty for anonymous callers.
	RequesterID string
	FileID      string
	// Size selects an image derivative width; empty or "0" means the original.
	Size string
}

// Service implements the user-facing file operations.
type Service struct {
	repo       Repository
	tree       *Tree
	blobs      blob.Storage
	dispatcher Dispatcher
	logger     *slog.Logger
	widths     []int
	newKey     func() string
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithDispatcher sets the derivative job dispatcher. Without one, images are
// stored but never get derivatives.
func WithDispatcher(d Dispatcher) ServiceOption {
	return func(s *Service) {
		s.dispatcher = d
	}
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDerivativeWidths overrides the widths accepted by Fetch.
func WithDerivativeWidths(widths ...int) ServiceOption {
	return func(s *Service) {
		if len(widths) > 0 {
			s.widths = slices.Clone(widths)
		}
	}
}

// WithKeyGenerator overrides blob key generation.
func WithKeyGenerator(fn func() string) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.newKey = fn
		}
	}
}

// NewService creates a file service.
func NewService(repo Repository, blobs blob.Storage, opts ...ServiceOption) *Service {
	s := &Service{
		repo:   repo,
		tree:   NewTree(repo),
		blobs:  blobs,
		logger: slog.Default(),
		widths: slices.Clone(DefaultDerivativeWidths),
		newKey: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(logger.Component("files"))
	return s
}

// Upload validates and stores a new node. For files and images the content
// is written before the metadata; an image is then handed to the dispatcher.
func (s *Service) Upload(ctx context.Context, in UploadInput) (*FileNode, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, ErrMissingName
	}
	if !in.Kind.Valid() {
		return nil, ErrMissingType
	}

	if in.Kind.HasContent() && in.Data == "" {
		return nil, ErrMissingData
	}

	if err := s.tree.ValidateParent(ctx, in.ParentID, in.OwnerID); err != nil {
		return nil, err
	}

	var content []byte
	if in.Kind.HasContent() {
		var err error
		if content, err = decodeBase64(in.Data); err != nil {
			return nil, ErrInvalidData
		}
	}

	node := &FileNode{
		OwnerID:  in.OwnerID,
		Name:     in.Name,
		Kind:     in.Kind,
		ParentID: in.ParentID,
		IsPublic: in.IsPublic,
	}
	if IsRoot(node.ParentID) {
		node.ParentID = RootID
	}

	if !in.Kind.HasContent() {
		if err := s.repo.Insert(ctx, node); err != nil {
			return nil, err
		}
		return node, nil
	}

	key := s.newKey()
	locator, err := s.blobs.Put(ctx, key, content)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToStoreBlob, err)
	}
	node.LocalPath = locator

	if err := s.repo.Insert(ctx, node); err != nil {
		if delErr := s.blobs.Delete(context.WithoutCancel(ctx), locator); delErr != nil {
			s.logger.WarnContext(ctx, "failed to remove orphaned blob",
				logger.BlobKey(key), logger.Error(delErr))
		}
		return nil, err
	}

	if node.Kind == KindImage {
		s.dispatch(ctx, node)
	}

	return node, nil
}

func (s *Service) dispatch(ctx context.Context, node *FileNode) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Dispatch(ctx, node.OwnerID, node.ID); err != nil {
		s.logger.WarnContext(ctx, "derivative job not dispatched",
			logger.FileID(node.ID), logger.UserID(node.OwnerID), logger.Error(err))
	}
}

// Show returns an owned node.
func (s *Service) Show(ctx context.Context, ownerID, fileID string) (*FileNode, error) {
	return s.repo.FindOwned(ctx, fileID, ownerID)
}

// List returns one page of the owner's nodes, optionally under parentID.
func (s *Service) List(ctx context.Context, ownerID, parentID string, page int) (Page, error) {
	return s.repo.List(ctx, ListQuery{
		OwnerID:  ownerID,
		ParentID: parentID,
		Page:     max(page, 0),
	})
}

// SetVisibility publishes or unpublishes an owned node.
func (s *Service) SetVisibility(ctx context.Context, ownerID, fileID string, isPublic bool) (*FileNode, error) {
	return s.repo.SetPublic(ctx, fileID, ownerID, isPublic)
}

// Fetch reads a node's content. Private nodes of other users are reported as
// ErrNotFound. For images a non-empty size selects a derivative, which must
// already exist; other kinds ignore size.
func (s *Service) Fetch(ctx context.Context, in FetchInput) (*Content, error) {
	node, err := s.repo.FindByID(ctx, in.FileID)
	if err != nil {
		return nil, err
	}
	if !node.IsPublic && (in.RequesterID == "" || node.OwnerID != in.RequesterID) {
		return nil, ErrNotFound
	}
	if node.Kind == KindFolder {
		return nil, ErrFolderHasNoContent
	}

	locator := node.LocalPath
	if node.Kind == KindImage && in.Size != "" && in.Size != "0" {
		width, err := strconv.Atoi(in.Size)
		if err != nil || !slices.Contains(s.widths, width) {
			return nil, ErrNotFound
		}
		locator = s.blobs.Locate(DerivativeKey(node.ID, width))
	}
	if locator == "" {
		return nil, ErrNotFound
	}

	data, err := s.blobs.Get(ctx, locator)
	if errors.Is(err, blob.ErrNotFound) || errors.Is(err, blob.ErrInvalidKey) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToReadBlob, err)
	}

	return &Content{
		Name:        node.Name,
		ContentType: ContentType(node.Name),
		Data:        data,
	}, nil
}

// ContentType derives a MIME type from a file name's extension.
func ContentType(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func decodeBase64(data string) ([]byte, error) {
	data = strings.TrimSpace(data)
	if b, err := base64.StdEncoding.DecodeString(data); err == nil {
		return b, nil
	}
	return base64.RawStdEncoding.DecodeString(strings.TrimRight(data, "="))
}
