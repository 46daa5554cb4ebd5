package file_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pinshare/internal/domain/file"
	"pinshare/internal/utils/platformerrors"
)

type mockRepository struct {
	created    []*file.FileRecord
	deleted    []uint
	granted    map[uint][]uint
	records    map[string]*file.FileRecord
	expired    []*file.FileRecord
	createErr  error
	deleteErr  error
	listOldErr error
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		granted: make(map[uint][]uint),
		records: make(map[string]*file.FileRecord),
	}
}

func (m *mockRepository) Create(ctx context.Context, rec *file.FileRecord) (*file.FileRecord, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	rec.ID = uint(len(m.created) + 1)
	rec.CreatedAt = time.Now()
	m.created = append(m.created, rec)
	m.records[rec.CID] = rec
	return rec, nil
}

func (m *mockRepository) FindByCID(ctx context.Context, cid string) (*file.FileRecord, error) {
	return m.records[cid], nil
}

func (m *mockRepository) ListForUser(ctx context.Context, userID uint) ([]*file.FileRecord, error) {
	return nil, nil
}

func (m *mockRepository) ListPublic(ctx context.Context, limit int) ([]*file.FileRecord, error) {
	return nil, nil
}

func (m *mockRepository) ListOlderThan(ctx context.Context, cutoff time.Time) ([]*file.FileRecord, error) {
	if m.listOldErr != nil {
		return nil, m.listOldErr
	}
	return m.expired, nil
}

// set union, mirroring the composite primary key on the access table
func (m *mockRepository) GrantAccess(ctx context.Context, fileID uint, userIDs []uint) error {
	for _, id := range userIDs {
		if !containsID(m.granted[fileID], id) {
			m.granted[fileID] = append(m.granted[fileID], id)
		}
	}
	return nil
}

func containsID(ids []uint, id uint) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}

func (m *mockRepository) Delete(ctx context.Context, id uint) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, id)
	var remaining []*file.FileRecord
	for _, rec := range m.expired {
		if rec.ID != id {
			remaining = append(remaining, rec)
		}
	}
	m.expired = remaining
	return nil
}

type mockPinner struct {
	pinErr     error
	unpinErr   error
	pinned     []string
	unpinned   []string
	returnCID  string
	configured bool
}

func (m *mockPinner) Configured() bool { return m.configured }

func (m *mockPinner) PinFile(ctx context.Context, path string, meta file.PinMetadata) (string, error) {
	if m.pinErr != nil {
		return "", m.pinErr
	}
	m.pinned = append(m.pinned, path)
	return m.returnCID, nil
}

func (m *mockPinner) Unpin(ctx context.Context, cid string) error {
	m.unpinned = append(m.unpinned, cid)
	return m.unpinErr
}

func (m *mockPinner) GatewayURL(cid string) string {
	return "https://gateway.example/ipfs/" + cid
}

func newTestService(repo *mockRepository, pinner *mockPinner) *file.Service {
	compressor := file.NewCompressor(file.CompressorConfig{Enabled: false}, zerolog.Nop())
	return file.NewService(file.ServiceConfig{
		MaxUploadBytes: 1024,
		RetentionAge:   7 * 24 * time.Hour,
		PublicLimit:    50,
	}, repo, pinner, compressor, zerolog.Nop())
}

func stageFile(t *testing.T, data []byte) file.StagedUpload {
	t.Helper()
	path := filepath.Join(t.TempDir(), "staged")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return file.StagedUpload{Path: path, OriginalName: "report.txt", Size: int64(len(data))}
}

func assertGone(t *testing.T, path string) {
	t.Helper()
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "staged file should be removed, still exists at %s", path)
}

func TestUpload_Success(t *testing.T) {
	repo := newMockRepository()
	pinner := &mockPinner{configured: true, returnCID: "QmTestHash"}
	svc := newTestService(repo, pinner)

	data := bytes.Repeat([]byte("x"), 100)
	staged := stageFile(t, data)

	rec, err := svc.Upload(context.Background(), staged, file.UploadInput{
		OwnerID:     7,
		IsPublic:    true,
		Description: "quarterly report",
	})

	require.NoError(t, err)
	assert.Equal(t, "QmTestHash", rec.CID)
	assert.Equal(t, "report.txt", rec.Name)
	assert.Equal(t, int64(100), rec.Size)
	assert.Equal(t, uint(7), rec.OwnerID)
	assert.True(t, rec.IsPublic)
	assert.False(t, rec.Compressed)
	assert.Nil(t, rec.OriginalSize)
	assert.NotEmpty(t, rec.MediaType)
	assertGone(t, staged.Path)
}

func TestUpload_RejectsEmptyFile(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, &mockPinner{configured: true})

	staged := stageFile(t, nil)
	_, err := svc.Upload(context.Background(), staged, file.UploadInput{OwnerID: 1})

	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
	assert.Empty(t, repo.created)
	assertGone(t, staged.Path)
}

func TestUpload_RejectsOversizedFile(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, &mockPinner{configured: true})

	staged := stageFile(t, bytes.Repeat([]byte("x"), 2048))
	_, err := svc.Upload(context.Background(), staged, file.UploadInput{OwnerID: 1})

	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypePayloadTooLarge))
	assert.Empty(t, repo.created)
	assertGone(t, staged.Path)
}

func TestUpload_PinFailureLeavesNoRecordAndNoFile(t *testing.T) {
	repo := newMockRepository()
	pinner := &mockPinner{configured: true, pinErr: errors.New("upstream unavailable")}
	svc := newTestService(repo, pinner)

	staged := stageFile(t, bytes.Repeat([]byte("x"), 100))
	_, err := svc.Upload(context.Background(), staged, file.UploadInput{OwnerID: 1})

	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeExternal))
	assert.Empty(t, repo.created)
	assertGone(t, staged.Path)
}

func TestUpload_PersistFailureStillCleansUp(t *testing.T) {
	repo := newMockRepository()
	repo.createErr = platformerrors.NewError(context.Background(), platformerrors.LayerRepository,
		platformerrors.ErrorTypeConflict, "content with this address already exists", nil, "")
	pinner := &mockPinner{configured: true, returnCID: "QmDup"}
	svc := newTestService(repo, pinner)

	staged := stageFile(t, bytes.Repeat([]byte("x"), 100))
	_, err := svc.Upload(context.Background(), staged, file.UploadInput{OwnerID: 1})

	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeConflict))
	assertGone(t, staged.Path)
}

func TestMetadata_AccessControl(t *testing.T) {
	repo := newMockRepository()
	repo.records["QmPrivate"] = &file.FileRecord{ID: 1, CID: "QmPrivate", OwnerID: 1, AccessList: []uint{3}}
	repo.records["QmPublic"] = &file.FileRecord{ID: 2, CID: "QmPublic", OwnerID: 1, IsPublic: true}
	svc := newTestService(repo, &mockPinner{configured: true})
	ctx := context.Background()

	tests := []struct {
		name      string
		cid       string
		callerID  uint
		wantErr   bool
		errorType platformerrors.ErrorType
	}{
		{"owner reads private", "QmPrivate", 1, false, ""},
		{"granted user reads private", "QmPrivate", 3, false, ""},
		{"stranger denied private", "QmPrivate", 9, true, platformerrors.ErrorTypeForbidden},
		{"stranger reads public", "QmPublic", 9, false, ""},
		{"unknown hash", "QmMissing", 1, true, platformerrors.ErrorTypeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := svc.Metadata(ctx, tt.cid, tt.callerID)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, platformerrors.IsErrorType(err, tt.errorType))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.cid, rec.CID)
		})
	}
}

func TestShare_OnlyOwnerMayShare(t *testing.T) {
	repo := newMockRepository()
	repo.records["QmDoc"] = &file.FileRecord{ID: 4, CID: "QmDoc", OwnerID: 2}
	svc := newTestService(repo, &mockPinner{configured: true})

	err := svc.Share(context.Background(), "QmDoc", 5, []uint{6})
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeForbidden))
	assert.Empty(t, repo.granted)
}

func TestShare_FiltersOwnerFromGrantList(t *testing.T) {
	repo := newMockRepository()
	repo.records["QmDoc"] = &file.FileRecord{ID: 4, CID: "QmDoc", OwnerID: 2}
	svc := newTestService(repo, &mockPinner{configured: true})

	require.NoError(t, svc.Share(context.Background(), "QmDoc", 2, []uint{2, 6, 7}))
	assert.Equal(t, []uint{6, 7}, repo.granted[4])
}

func TestShare_RepeatedGrantIsUnion(t *testing.T) {
	repo := newMockRepository()
	repo.records["QmDoc"] = &file.FileRecord{ID: 4, CID: "QmDoc", OwnerID: 2}
	svc := newTestService(repo, &mockPinner{configured: true})
	ctx := context.Background()

	require.NoError(t, svc.Share(ctx, "QmDoc", 2, []uint{3, 4}))
	require.NoError(t, svc.Share(ctx, "QmDoc", 2, []uint{4, 5}))

	assert.Equal(t, []uint{3, 4, 5}, repo.granted[4])
}

func TestShare_OwnerOnlyGrantIsNoop(t *testing.T) {
	repo := newMockRepository()
	repo.records["QmDoc"] = &file.FileRecord{ID: 4, CID: "QmDoc", OwnerID: 2}
	svc := newTestService(repo, &mockPinner{configured: true})

	require.NoError(t, svc.Share(context.Background(), "QmDoc", 2, []uint{2}))
	assert.Empty(t, repo.granted)
}

func TestDelete_OnlyOwnerMayDelete(t *testing.T) {
	repo := newMockRepository()
	repo.records["QmDoc"] = &file.FileRecord{ID: 4, CID: "QmDoc", OwnerID: 2}
	svc := newTestService(repo, &mockPinner{configured: true})

	err := svc.Delete(context.Background(), "QmDoc", 9)
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeForbidden))
	assert.Empty(t, repo.deleted)
}

func TestDelete_UnpinFailureStillDeletesRecord(t *testing.T) {
	repo := newMockRepository()
	repo.records["QmDoc"] = &file.FileRecord{ID: 4, CID: "QmDoc", OwnerID: 2}
	pinner := &mockPinner{configured: true, unpinErr: errors.New("gateway timeout")}
	svc := newTestService(repo, pinner)

	require.NoError(t, svc.Delete(context.Background(), "QmDoc", 2))
	assert.Equal(t, []uint{4}, repo.deleted)
	assert.Equal(t, []string{"QmDoc"}, pinner.unpinned)
}

func TestSweepExpired_RemovesOldRecords(t *testing.T) {
	repo := newMockRepository()
	repo.expired = []*file.FileRecord{
		{ID: 1, CID: "QmOld1"},
		{ID: 2, CID: "QmOld2"},
	}
	pinner := &mockPinner{configured: true}
	svc := newTestService(repo, pinner)

	removed, err := svc.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.Equal(t, []uint{1, 2}, repo.deleted)
	assert.Equal(t, []string{"QmOld1", "QmOld2"}, pinner.unpinned)
}

func TestSweepExpired_UnpinFailureDoesNotBlockDeletion(t *testing.T) {
	repo := newMockRepository()
	repo.expired = []*file.FileRecord{{ID: 1, CID: "QmOld"}}
	pinner := &mockPinner{configured: true, unpinErr: errors.New("already unpinned")}
	svc := newTestService(repo, pinner)

	removed, err := svc.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, []uint{1}, repo.deleted)
}

func TestSweepExpired_SecondRunRemovesNothing(t *testing.T) {
	repo := newMockRepository()
	repo.expired = []*file.FileRecord{{ID: 1, CID: "QmOld"}}
	svc := newTestService(repo, &mockPinner{configured: true})

	removed, err := svc.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	removed, err = svc.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestSweepExpired_DeleteFailureIsNotCounted(t *testing.T) {
	repo := newMockRepository()
	repo.expired = []*file.FileRecord{{ID: 1, CID: "QmOld"}}
	repo.deleteErr = errors.New("db down")
	svc := newTestService(repo, &mockPinner{configured: true})

	removed, err := svc.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestAccessibleBy(t *testing.T) {
	rec := &file.FileRecord{OwnerID: 1, AccessList: []uint{2, 3}}

	assert.True(t, rec.AccessibleBy(1))
	assert.True(t, rec.AccessibleBy(2))
	assert.False(t, rec.AccessibleBy(4))

	rec.IsPublic = true
	assert.True(t, rec.AccessibleBy(4))
}
