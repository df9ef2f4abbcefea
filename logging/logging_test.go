package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigure_Level(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		level   string
		want    log.Level
		wantErr bool
	}{
		{name: "default", level: "", want: log.InfoLevel},
		{name: "debug", level: "debug", want: log.DebugLevel},
		{name: "padded", level: " warn ", want: log.WarnLevel},
		{name: "invalid", level: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := log.New()
			_, err := configure(logger, &bytes.Buffer{}, Options{Level: tt.level})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, logger.GetLevel())
		})
	}
}

func TestConfigure_ConsoleOnly(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := log.New()
	closer, err := configure(logger, &buf, Options{JSON: true})
	require.NoError(t, err)
	defer closer.Close()

	logger.WithField("lottery_id", 7).Info("Synced lotteries")
	assert.Contains(t, buf.String(), `"lottery_id":7`)
	assert.Contains(t, buf.String(), `"msg":"Synced lotteries"`)
}

func TestConfigure_RotatedFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "fortuneblock.log")
	var buf bytes.Buffer
	logger := log.New()
	closer, err := configure(logger, &buf, Options{File: path})
	require.NoError(t, err)

	logger.Info("Lottery sync worker started")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Lottery sync worker started")
	assert.Contains(t, buf.String(), "Lottery sync worker started")
}
