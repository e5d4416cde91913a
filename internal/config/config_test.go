// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "none", cfg.Publisher.Type)
		assert.Equal(t, []string{"localhost:9092"}, cfg.Publisher.Kafka.Brokers)
		assert.Equal(t, int64(1000), cfg.Publisher.Redis.MaxLen)
		assert.Empty(t, cfg.Barcode)
	})

	t.Run("File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "thermo.yaml")
		err := os.WriteFile(path, []byte(`
log:
  level: debug
  filename: /var/log/thermo.log
publisher:
  type: kafka
  kafka:
    brokers: [kafka-1:9092, kafka-2:9092]
    topic: body-temperature
device:
  name: TAT-5000
barcode: "40000001"
`), 0o600)
		require.NoError(t, err)

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, "/var/log/thermo.log", cfg.Log.Filename)
		assert.Equal(t, 10, cfg.Log.MaxSize)
		assert.Equal(t, "kafka", cfg.Publisher.Type)
		assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Publisher.Kafka.Brokers)
		assert.Equal(t, "body-temperature", cfg.Publisher.Kafka.Topic)
		assert.Equal(t, "TAT-5000", cfg.Device.Name)
		assert.Equal(t, "40000001", cfg.Barcode)
	})

	t.Run("Environment", func(t *testing.T) {
		t.Setenv("THERMO_BARCODE", "40000002")
		t.Setenv("THERMO_PUBLISHER_TYPE", "redis")
		t.Setenv("THERMO_PUBLISHER_REDIS_ADDR", "redis:6379")
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "40000002", cfg.Barcode)
		assert.Equal(t, "redis", cfg.Publisher.Type)
		assert.Equal(t, "redis:6379", cfg.Publisher.Redis.Addr)
	})

	t.Run("InvalidPublisher", func(t *testing.T) {
		t.Setenv("THERMO_PUBLISHER_TYPE", "carrier-pigeon")
		_, err := Load("")
		assert.ErrorContains(t, err, "invalid publisher type")
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.ErrorContains(t, err, "failed to read config")
	})
}
