package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"aetheria/internal/model"
	"aetheria/internal/repository"
	repoMocks "aetheria/internal/repository/mocks"
	"aetheria/internal/storage"
	storeMocks "aetheria/internal/storage/mocks"
)

func int64p(v int64) *int64 { return &v }

func fp(v float64) *float64 { return &v }

func storageObjectInfo(key string) storage.ObjectInfo {
	return storage.ObjectInfo{Key: key}
}

func savableReport() *model.ScanReport {
	return &model.ScanReport{
		CheckID:        int64p(42),
		Name:           "Asha Rao",
		Phone:          "9876543210",
		SkinAge:        int64p(29),
		SamplingImages: map[string]string{"RGB": "https://cdn.example/rgb.jpg"},
		Metrics: map[string]model.Metric{
			"moisture": {Key: "moisture", Value: fp(62), Band: "blue"},
		},
		URLID:   int64p(123456),
		URLSign: "abcdef",
		Raw:     []byte(`{"checkid":42}`),
	}
}

func TestScanService_Save(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path with new customer", func(t *testing.T) {
		mCust := new(repoMocks.MockCustomerRepository)
		mScan := new(repoMocks.MockScanRepository)
		mStore := new(storeMocks.MockStorage)

		mCust.On("FindByPhone", ctx, "+919876543210").Return(nil, sql.ErrNoRows)
		mCust.On("Create", ctx, mock.MatchedBy(func(c *model.Customer) bool {
			return c.PhoneE164 == "+919876543210" && c.FullName == "Asha Rao"
		})).Return(&model.Customer{ID: "cust-1", PhoneE164: "+919876543210", FullName: "Asha Rao"}, nil)

		mScan.On("FindByVendorRef", ctx, int64(123456), "abcdef").Return(nil, sql.ErrNoRows)
		mScan.On("CreateSession", ctx, "cust-1").Return(&model.Session{ID: "sess-1", CustomerID: "cust-1"}, nil)
		mStore.On("Put", ctx, "reports/123456-abcdef.json", mock.Anything, mock.Anything).
			Return(storageObjectInfo("reports/123456-abcdef.json"), nil)
		mScan.On("Create", ctx, mock.MatchedBy(func(s *model.Scan) bool {
			return s.SessionID == "sess-1" &&
				s.URLID == 123456 &&
				s.URLSign == "abcdef" &&
				s.CustomerPhone == "+919876543210" &&
				s.ArchivePath == "reports/123456-abcdef.json"
		})).Return(&model.Scan{ID: "scan-1", SessionID: "sess-1"}, nil)

		svc := NewScanService(mCust, mScan, mStore, "91")
		res, err := svc.Save(ctx, savableReport())

		require.NoError(t, err)
		assert.True(t, res.OK)
		assert.False(t, res.Duplicate)
		assert.Equal(t, "cust-1", res.CustomerID)
		assert.Equal(t, "sess-1", res.SessionID)
		assert.Equal(t, "scan-1", res.ScanID)
		mCust.AssertExpectations(t)
		mScan.AssertExpectations(t)
	})

	t.Run("duplicate report short-circuits before session creation", func(t *testing.T) {
		mCust := new(repoMocks.MockCustomerRepository)
		mScan := new(repoMocks.MockScanRepository)

		mCust.On("FindByPhone", ctx, "+919876543210").
			Return(&model.Customer{ID: "cust-1", FullName: "Asha Rao"}, nil)
		mScan.On("FindByVendorRef", ctx, int64(123456), "abcdef").
			Return(&model.Scan{ID: "scan-old", SessionID: "sess-old"}, nil)

		svc := NewScanService(mCust, mScan, nil, "91")
		res, err := svc.Save(ctx, savableReport())

		require.NoError(t, err)
		assert.True(t, res.Duplicate)
		assert.Equal(t, "scan-old", res.ScanID)
		assert.Equal(t, "sess-old", res.SessionID)
		mScan.AssertNotCalled(t, "CreateSession", mock.Anything, mock.Anything)
		mScan.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("name backfill on existing customer", func(t *testing.T) {
		mCust := new(repoMocks.MockCustomerRepository)
		mScan := new(repoMocks.MockScanRepository)

		mCust.On("FindByPhone", ctx, "+919876543210").
			Return(&model.Customer{ID: "cust-1", FullName: "A. Rao"}, nil)
		mCust.On("UpdateName", ctx, "+919876543210", "Asha Rao").Return(nil)
		mScan.On("FindByVendorRef", ctx, int64(123456), "abcdef").
			Return(&model.Scan{ID: "scan-old", SessionID: "sess-old"}, nil)

		svc := NewScanService(mCust, mScan, nil, "91")
		_, err := svc.Save(ctx, savableReport())

		assert.NoError(t, err)
		mCust.AssertExpectations(t)
	})

	t.Run("missing vendor ref", func(t *testing.T) {
		svc := NewScanService(nil, nil, nil, "91")

		report := savableReport()
		report.URLID = nil
		_, err := svc.Save(ctx, report)
		assert.ErrorIs(t, err, ErrMissingVendorRef)

		report = savableReport()
		report.URLSign = ""
		_, err = svc.Save(ctx, report)
		assert.ErrorIs(t, err, ErrMissingVendorRef)
	})

	t.Run("invalid phone", func(t *testing.T) {
		svc := NewScanService(nil, nil, nil, "91")

		report := savableReport()
		report.Phone = "n/a"
		_, err := svc.Save(ctx, report)
		assert.ErrorIs(t, err, ErrInvalidPhone)
	})

	t.Run("archive failure does not fail the save", func(t *testing.T) {
		mCust := new(repoMocks.MockCustomerRepository)
		mScan := new(repoMocks.MockScanRepository)
		mStore := new(storeMocks.MockStorage)

		mCust.On("FindByPhone", ctx, "+919876543210").
			Return(&model.Customer{ID: "cust-1", FullName: "Asha Rao"}, nil)
		mScan.On("FindByVendorRef", ctx, int64(123456), "abcdef").Return(nil, sql.ErrNoRows)
		mScan.On("CreateSession", ctx, "cust-1").Return(&model.Session{ID: "sess-1"}, nil)
		mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return(storageObjectInfo(""), errors.New("bucket gone"))
		mScan.On("Create", ctx, mock.MatchedBy(func(s *model.Scan) bool {
			return s.ArchivePath == ""
		})).Return(&model.Scan{ID: "scan-1", SessionID: "sess-1"}, nil)

		svc := NewScanService(mCust, mScan, mStore, "91")
		res, err := svc.Save(ctx, savableReport())

		require.NoError(t, err)
		assert.Equal(t, "scan-1", res.ScanID)
		mStore.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("insert failure rolls back the archive", func(t *testing.T) {
		mCust := new(repoMocks.MockCustomerRepository)
		mScan := new(repoMocks.MockScanRepository)
		mStore := new(storeMocks.MockStorage)

		mCust.On("FindByPhone", ctx, "+919876543210").
			Return(&model.Customer{ID: "cust-1", FullName: "Asha Rao"}, nil)
		mScan.On("FindByVendorRef", ctx, int64(123456), "abcdef").Return(nil, sql.ErrNoRows)
		mScan.On("CreateSession", ctx, "cust-1").Return(&model.Session{ID: "sess-1"}, nil)
		mStore.On("Put", ctx, "reports/123456-abcdef.json", mock.Anything, mock.Anything).
			Return(storageObjectInfo("reports/123456-abcdef.json"), nil)
		mScan.On("Create", ctx, mock.Anything).Return(nil, errors.New("db fail"))
		mStore.On("Delete", ctx, "reports/123456-abcdef.json").Return(nil)

		svc := NewScanService(mCust, mScan, mStore, "91")
		_, err := svc.Save(ctx, savableReport())

		assert.ErrorContains(t, err, "scan insert failed")
		mStore.AssertExpectations(t)
	})
}

func TestScanService_ListCustomers(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		mCust := new(repoMocks.MockCustomerRepository)
		mCust.On("List", ctx, repository.PageQuery{Limit: 10, Offset: 0}).
			Return(&repository.PageResult[model.Customer]{
				Items: []model.Customer{{ID: "c1"}, {ID: "c2"}},
				Total: 2,
			}, nil)

		svc := NewScanService(mCust, nil, nil, "91")
		res, err := svc.ListCustomers(ctx, 10, 0)

		require.NoError(t, err)
		assert.Len(t, res.Items, 2)
		assert.Equal(t, 2, res.Total)
	})

	t.Run("bad pagination falls back to defaults", func(t *testing.T) {
		mCust := new(repoMocks.MockCustomerRepository)
		mCust.On("List", ctx, repository.PageQuery{Limit: 10, Offset: 0}).
			Return(&repository.PageResult[model.Customer]{Items: []model.Customer{}, Total: 0}, nil)

		svc := NewScanService(mCust, nil, nil, "91")
		_, err := svc.ListCustomers(ctx, 0, -5)
		assert.NoError(t, err)
		mCust.AssertExpectations(t)
	})
}

func TestScanService_LatestScan(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mScan := new(repoMocks.MockScanRepository)
		mScan.On("LatestForCustomer", ctx, "cust-1").
			Return(&model.Scan{ID: "scan-1"}, nil)

		svc := NewScanService(nil, mScan, nil, "91")
		scan, err := svc.LatestScan(ctx, "cust-1")

		require.NoError(t, err)
		assert.Equal(t, "scan-1", scan.ID)
	})

	t.Run("not found", func(t *testing.T) {
		mScan := new(repoMocks.MockScanRepository)
		mScan.On("LatestForCustomer", ctx, "cust-1").Return(nil, sql.ErrNoRows)

		svc := NewScanService(nil, mScan, nil, "91")
		_, err := svc.LatestScan(ctx, "cust-1")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("empty id", func(t *testing.T) {
		svc := NewScanService(nil, nil, nil, "91")
		_, err := svc.LatestScan(ctx, "")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestScanService_ArchiveURL(t *testing.T) {
	ctx := context.Background()

	t.Run("presigns the archived payload", func(t *testing.T) {
		mScan := new(repoMocks.MockScanRepository)
		mStore := new(storeMocks.MockStorage)

		mScan.On("LatestForCustomer", ctx, "cust-1").
			Return(&model.Scan{ID: "scan-1", ArchivePath: "reports/123456-abcdef.json"}, nil)
		mStore.On("PresignGet", ctx, "reports/123456-abcdef.json", archiveURLExpiry).
			Return("https://minio.example/reports/123456-abcdef.json?sig=x", nil)

		svc := NewScanService(nil, mScan, mStore, "91")
		u, err := svc.ArchiveURL(ctx, "cust-1")

		require.NoError(t, err)
		assert.Contains(t, u, "reports/123456-abcdef.json")
		mStore.AssertExpectations(t)
	})

	t.Run("scan without archive", func(t *testing.T) {
		mScan := new(repoMocks.MockScanRepository)
		mStore := new(storeMocks.MockStorage)

		mScan.On("LatestForCustomer", ctx, "cust-1").
			Return(&model.Scan{ID: "scan-1"}, nil)

		svc := NewScanService(nil, mScan, mStore, "91")
		_, err := svc.ArchiveURL(ctx, "cust-1")

		assert.ErrorIs(t, err, ErrNotFound)
		mStore.AssertNotCalled(t, "PresignGet", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("no scan at all", func(t *testing.T) {
		mScan := new(repoMocks.MockScanRepository)
		mScan.On("LatestForCustomer", ctx, "cust-1").Return(nil, sql.ErrNoRows)

		svc := NewScanService(nil, mScan, nil, "91")
		_, err := svc.ArchiveURL(ctx, "cust-1")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("presign failure", func(t *testing.T) {
		mScan := new(repoMocks.MockScanRepository)
		mStore := new(storeMocks.MockStorage)

		mScan.On("LatestForCustomer", ctx, "cust-1").
			Return(&model.Scan{ID: "scan-1", ArchivePath: "reports/1-a.json"}, nil)
		mStore.On("PresignGet", ctx, "reports/1-a.json", archiveURLExpiry).
			Return("", errors.New("endpoint down"))

		svc := NewScanService(nil, mScan, mStore, "91")
		_, err := svc.ArchiveURL(ctx, "cust-1")
		assert.ErrorContains(t, err, "presign archive")
	})
}
