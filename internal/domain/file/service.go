package file

import (
	"context"
	"os"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"pinshare/internal/infrastructure/metrics"
	"pinshare/internal/utils/platformerrors"
)

// Repository defines persistence operations needed by the service.
type Repository interface {
	Create(ctx context.Context, rec *FileRecord) (*FileRecord, error)
	FindByCID(ctx context.Context, cid string) (*FileRecord, error)
	ListForUser(ctx context.Context, userID uint) ([]*FileRecord, error)
	ListPublic(ctx context.Context, limit int) ([]*FileRecord, error)
	ListOlderThan(ctx context.Context, cutoff time.Time) ([]*FileRecord, error)
	GrantAccess(ctx context.Context, fileID uint, userIDs []uint) error
	Delete(ctx context.Context, id uint) error
}

// PinMetadata is the envelope sent alongside pinned content.
type PinMetadata struct {
	Name       string
	Compressed bool
}

// Pinner submits content to the external pinning service.
type Pinner interface {
	Configured() bool
	PinFile(ctx context.Context, path string, meta PinMetadata) (string, error)
	Unpin(ctx context.Context, cid string) error
	GatewayURL(cid string) string
}

// ServiceConfig carries the pipeline policy knobs.
type ServiceConfig struct {
	MaxUploadBytes int64
	RetentionAge   time.Duration
	PublicLimit    int
}

// Service sequences the upload pipeline and exposes file queries and
// mutations. All pipeline failures leave no local file and no partial record.
type Service struct {
	cfg        ServiceConfig
	repo       Repository
	pinner     Pinner
	compressor *Compressor
	log        zerolog.Logger
}

func NewService(cfg ServiceConfig, repo Repository, pinner Pinner, compressor *Compressor, log zerolog.Logger) *Service {
	return &Service{
		cfg:        cfg,
		repo:       repo,
		pinner:     pinner,
		compressor: compressor,
		log:        log.With().Str("component", "file-service").Logger(),
	}
}

// GatewayURL returns the public gateway location for a content address.
func (s *Service) GatewayURL(cid string) string {
	return s.pinner.GatewayURL(cid)
}

// PinningConfigured reports whether the external pinning service is usable.
func (s *Service) PinningConfigured() bool {
	return s.pinner.Configured()
}

// Upload drives the pipeline: validate, compress, pin, persist, clean up.
// The staged file never survives the call, whatever the outcome.
func (s *Service) Upload(ctx context.Context, staged StagedUpload, input UploadInput) (*FileRecord, error) {
	// The surviving local file changes identity as the pipeline advances;
	// the deferred cleanup covers every exit, including cancellation.
	survivor := staged.Path
	defer func() {
		if survivor != "" {
			if err := os.Remove(survivor); err != nil && !os.IsNotExist(err) {
				s.log.Warn().Err(err).Str("path", survivor).Msg("staging cleanup failed")
			}
		}
	}()

	size, err := InspectSize(staged.Path)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"no file uploaded", err, "5a3e7d20-94c1-4b6f-8de5-120f7a9c3b64")
	}
	if size == 0 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"uploaded file is empty", nil, "1f8b2c47-6d90-4a35-b7e1-c58d034f9a26")
	}
	if size > s.cfg.MaxUploadBytes {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypePayloadTooLarge,
			"file size exceeds upload limit", nil, "9c54e1b8-3f72-4d06-a8c9-e67b2d105f43")
	}

	mediaType := staged.MediaType
	if mediaType == "" {
		if detected, err := mimetype.DetectFile(staged.Path); err == nil {
			mediaType = detected.String()
		} else {
			mediaType = "application/octet-stream"
		}
	}

	outcome := s.compressor.Compress(staged.Path, staged.OriginalName, size)
	survivor = outcome.Path
	if outcome.Compressed {
		metrics.RecordCompression(outcome.OriginalSize, outcome.CompressedSize)
	}

	cid, err := s.pinner.PinFile(ctx, outcome.Path, PinMetadata{
		Name:       staged.OriginalName,
		Compressed: outcome.Compressed,
	})
	if err != nil {
		metrics.RecordPin("error")
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal,
			"pin submission failed", err, "7b0f4c26-d583-49e1-ba97-2a60c1f8e354")
	}
	metrics.RecordPin("success")

	rec := &FileRecord{
		Name:        staged.OriginalName,
		Size:        outcome.FinalSize(),
		Compressed:  outcome.Compressed,
		MediaType:   mediaType,
		CID:         cid,
		OwnerID:     input.OwnerID,
		IsPublic:    input.IsPublic,
		Description: input.Description,
	}
	if outcome.Compressed {
		orig := outcome.OriginalSize
		rec.OriginalSize = &orig
	}

	created, err := s.repo.Create(ctx, rec)
	if err != nil {
		return nil, err
	}

	metrics.RecordUpload(mediaType, created.Size)
	return created, nil
}

// Metadata returns the record for the given content address if the caller
// may read it.
func (s *Service) Metadata(ctx context.Context, cid string, callerID uint) (*FileRecord, error) {
	rec, err := s.findAccessible(ctx, cid, callerID)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ListForUser returns records the user owns or was granted access to,
// newest first.
func (s *Service) ListForUser(ctx context.Context, userID uint) ([]*FileRecord, error) {
	return s.repo.ListForUser(ctx, userID)
}

// ListPublic returns the newest public records up to the configured limit.
func (s *Service) ListPublic(ctx context.Context) ([]*FileRecord, error) {
	return s.repo.ListPublic(ctx, s.cfg.PublicLimit)
}

// Share grants read access to the given users. Only the owner may share;
// the owner is never stored on the access list and repeated grants are
// deduplicated by the repository.
func (s *Service) Share(ctx context.Context, cid string, callerID uint, userIDs []uint) error {
	rec, err := s.repo.FindByCID(ctx, cid)
	if err != nil {
		return err
	}
	if rec == nil {
		return notFound(ctx)
	}
	if rec.OwnerID != callerID {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeForbidden,
			"only the file owner can share", nil, "b6d40f92-7a15-4c38-9e62-f03c8b5d1a74")
	}

	grant := make([]uint, 0, len(userIDs))
	for _, id := range userIDs {
		if id != rec.OwnerID {
			grant = append(grant, id)
		}
	}
	if len(grant) == 0 {
		return nil
	}
	return s.repo.GrantAccess(ctx, rec.ID, grant)
}

// Delete removes the record. Only the owner may delete. The pinned content
// is unpinned best-effort; record deletion is the user-visible contract.
func (s *Service) Delete(ctx context.Context, cid string, callerID uint) error {
	rec, err := s.repo.FindByCID(ctx, cid)
	if err != nil {
		return err
	}
	if rec == nil {
		return notFound(ctx)
	}
	if rec.OwnerID != callerID {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeForbidden,
			"only the file owner can delete", nil, "e29c5b80-4d67-4f13-a0b8-6c71f3d94e25")
	}

	if err := s.pinner.Unpin(ctx, rec.CID); err != nil {
		s.log.Warn().Err(err).Str("cid", rec.CID).Msg("unpin failed, deleting record anyway")
	}
	return s.repo.Delete(ctx, rec.ID)
}

// SweepExpired removes records older than the retention age. Un-pin is
// best-effort per record; one record's failure never stops the batch.
// Running the sweep twice in a row deletes nothing new the second time.
func (s *Service) SweepExpired(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-s.cfg.RetentionAge)
	expired, err := s.repo.ListOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, rec := range expired {
		if err := s.pinner.Unpin(ctx, rec.CID); err != nil {
			s.log.Warn().Err(err).Str("cid", rec.CID).Str("name", rec.Name).Msg("sweep unpin failed")
		}
		if err := s.repo.Delete(ctx, rec.ID); err != nil {
			s.log.Error().Err(err).Str("cid", rec.CID).Msg("sweep delete failed")
			continue
		}
		removed++
	}
	metrics.RecordSweep(removed)
	return removed, nil
}

func (s *Service) findAccessible(ctx context.Context, cid string, callerID uint) (*FileRecord, error) {
	rec, err := s.repo.FindByCID(ctx, cid)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, notFound(ctx)
	}
	if !rec.AccessibleBy(callerID) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeForbidden,
			"access denied", nil, "74f2a8d1-0b5e-4693-bc47-92e1d6f30a58")
	}
	return rec, nil
}

func notFound(ctx context.Context) error {
	return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
		"file not found", nil, "3d90c6e2-85f4-4b21-a7d6-10b8f5c24e79")
}
