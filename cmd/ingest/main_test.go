package main

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"asv-water-quality/internal/analytics"
	"asv-water-quality/internal/ingest"
	"asv-water-quality/internal/models"
)

type fakeSink struct {
	insertErr error
	inserted  int
	closed    bool
}

func (s *fakeSink) InsertMany(_ context.Context, records []models.Record) (int, error) {
	if s.insertErr != nil {
		return 0, s.insertErr
	}
	s.inserted += len(records)
	return len(records), nil
}

func (s *fakeSink) Close(context.Context) error {
	s.closed = true
	return nil
}

func readTable(t *testing.T) *ingest.Table {
	t.Helper()
	table, err := ingest.ReadCSV(strings.NewReader(
		"Date m/d/y   ,Time hh:mm:ss,Temperature (c)\n" +
			"10/08/22,10:00:00,24.5\n" +
			"10/08/22,10:01:00,24.6\n"))
	require.NoError(t, err)
	return table
}

func TestLoadAndCloseClosesOnFailure(t *testing.T) {
	store := &fakeSink{insertErr: errors.New("not primary")}
	opts := ingest.Options{Method: analytics.MethodIQR, K: 1.5}

	_, err := loadAndClose(context.Background(), readTable(t), opts, store)
	require.Error(t, err)
	assert.True(t, store.closed)
}

func TestLoadAndCloseClosesOnSuccess(t *testing.T) {
	store := &fakeSink{}
	opts := ingest.Options{Method: analytics.MethodIQR, K: 1.5}

	report, err := loadAndClose(context.Background(), readTable(t), opts, store)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Inserted)
	assert.True(t, store.closed)
}

func TestLoadAndCloseDryRun(t *testing.T) {
	opts := ingest.Options{Method: analytics.MethodIQR, K: 1.5, DryRun: true}

	report, err := loadAndClose(context.Background(), readTable(t), opts, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Kept)
}

func TestSplitFields(t *testing.T) {
	assert.Equal(t, []string{"Temperature (C)", "ODO (mg/L)"}, splitFields(" Temperature (C), ,ODO (mg/L)"))
	assert.Nil(t, splitFields(""))
}
