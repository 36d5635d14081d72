package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aetheria/internal/banding"
	"aetheria/internal/model"
	"aetheria/internal/service"
	svcMocks "aetheria/internal/service/mocks"
)

func fp(v float64) *float64 { return &v }

func sampleReport() *model.ScanReport {
	return &model.ScanReport{
		Name:  "Asha Rao",
		Phone: "9876543210",
		Metrics: map[string]model.Metric{
			"moisture": {Key: "moisture", Value: fp(62)},
			"acne":     {Key: "acne", Value: nil},
		},
		SamplingImages: map[string]string{"RGB": "https://cdn.example/rgb.jpg"},
	}
}

func TestIngestService_Ingest(t *testing.T) {
	ctx := context.Background()
	bands := banding.NewWatcher("")

	t.Run("happy path with id and sign", func(t *testing.T) {
		gw := new(svcMocks.MockVendorGateway)
		gw.On("Report", ctx, "123456", "abcdef").Return(sampleReport(), nil)

		svc := service.NewIngestService(gw, bands)
		report, err := svc.Ingest(ctx, service.ReportRef{ID: "123456", Sign: "abcdef"})

		require.NoError(t, err)
		require.NotNil(t, report.URLID)
		assert.Equal(t, int64(123456), *report.URLID)
		assert.Equal(t, "abcdef", report.URLSign)
		assert.Equal(t, "98****10", report.PhoneMasked)

		assert.Equal(t, "blue", report.Metrics["moisture"].Band)
		assert.Equal(t, "#3498db", report.Metrics["moisture"].Color)
		assert.Equal(t, "unknown", report.Metrics["acne"].Band)
		gw.AssertExpectations(t)
	})

	t.Run("resolves id and sign from url", func(t *testing.T) {
		gw := new(svcMocks.MockVendorGateway)
		gw.On("Report", ctx, "77", "sig").Return(sampleReport(), nil)

		svc := service.NewIngestService(gw, bands)
		_, err := svc.Ingest(ctx, service.ReportRef{URL: "https://report.wax-apple.cn/#/Report/newPifu_play?id=77&sign=sig"})

		assert.NoError(t, err)
		gw.AssertExpectations(t)
	})

	t.Run("non-numeric id leaves url_id unset", func(t *testing.T) {
		gw := new(svcMocks.MockVendorGateway)
		gw.On("Report", ctx, "abc", "sig").Return(sampleReport(), nil)

		svc := service.NewIngestService(gw, bands)
		report, err := svc.Ingest(ctx, service.ReportRef{ID: "abc", Sign: "sig"})

		require.NoError(t, err)
		assert.Nil(t, report.URLID)
		assert.Equal(t, "sig", report.URLSign)
	})

	t.Run("id overflowing int64 leaves url_id unset", func(t *testing.T) {
		const hugeID = "92233720368547758070" // 10 * MaxInt64
		gw := new(svcMocks.MockVendorGateway)
		gw.On("Report", ctx, hugeID, "sig").Return(sampleReport(), nil)

		svc := service.NewIngestService(gw, bands)
		report, err := svc.Ingest(ctx, service.ReportRef{ID: hugeID, Sign: "sig"})

		require.NoError(t, err)
		assert.Nil(t, report.URLID)
		assert.Equal(t, "sig", report.URLSign)
	})

	t.Run("missing reference", func(t *testing.T) {
		svc := service.NewIngestService(new(svcMocks.MockVendorGateway), bands)
		_, err := svc.Ingest(ctx, service.ReportRef{})
		assert.ErrorIs(t, err, service.ErrReportRefRequired)
	})

	t.Run("url without id/sign", func(t *testing.T) {
		svc := service.NewIngestService(new(svcMocks.MockVendorGateway), bands)
		_, err := svc.Ingest(ctx, service.ReportRef{URL: "https://report.wax-apple.cn/#/Report/newPifu_play"})
		assert.ErrorIs(t, err, service.ErrInvalidReportURL)
	})

	t.Run("vendor failure", func(t *testing.T) {
		gw := new(svcMocks.MockVendorGateway)
		gw.On("Report", ctx, "1", "a").Return(nil, errors.New("vendor responded with status 403"))

		svc := service.NewIngestService(gw, bands)
		_, err := svc.Ingest(ctx, service.ReportRef{ID: "1", Sign: "a"})
		assert.ErrorContains(t, err, "fetch report")
	})
}

func TestImageService_Fetch(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		gw := new(svcMocks.MockVendorGateway)
		gw.On("FetchImage", ctx, "https://cdn.example/rgb.jpg").
			Return([]byte{1, 2, 3}, "image/jpeg", nil)

		svc := service.NewImageService(gw)
		data, ct, err := svc.Fetch(ctx, "https://cdn.example/rgb.jpg")

		assert.NoError(t, err)
		assert.Equal(t, []byte{1, 2, 3}, data)
		assert.Equal(t, "image/jpeg", ct)
	})

	t.Run("bad scheme", func(t *testing.T) {
		svc := service.NewImageService(new(svcMocks.MockVendorGateway))
		_, _, err := svc.Fetch(ctx, "ftp://cdn.example/rgb.jpg")
		assert.ErrorIs(t, err, service.ErrBadImageURL)
	})

	t.Run("empty url", func(t *testing.T) {
		svc := service.NewImageService(new(svcMocks.MockVendorGateway))
		_, _, err := svc.Fetch(ctx, "")
		assert.ErrorIs(t, err, service.ErrBadImageURL)
	})

	t.Run("fetch failure", func(t *testing.T) {
		gw := new(svcMocks.MockVendorGateway)
		gw.On("FetchImage", ctx, "https://cdn.example/gone.jpg").
			Return(nil, "", errors.New("image responded with status 404"))

		svc := service.NewImageService(gw)
		_, _, err := svc.Fetch(ctx, "https://cdn.example/gone.jpg")
		assert.ErrorContains(t, err, "image fetch failed")
	})
}
