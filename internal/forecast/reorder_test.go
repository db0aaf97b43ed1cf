package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafetyStockAndReorderPoint(t *testing.T) {
	// 10 units/day, 14 day lead time, 7 day buffer.
	ss := SafetyStock(10, 7)
	assert.Equal(t, 70, ss)
	assert.Equal(t, 210, ReorderPoint(10, 14, ss))
}

func TestSafetyStock_RoundsUp(t *testing.T) {
	assert.Equal(t, 25, SafetyStock(3.5, 7))
	assert.Equal(t, 4, SafetyStock(0.5, 7))
}

func TestSafetyStock_ZeroVelocity(t *testing.T) {
	assert.Zero(t, SafetyStock(0, 7))
	assert.Zero(t, ReorderPoint(0, 14, 0))
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"valid", func(c *Config) {}, ""},
		{"zero lead time", func(c *Config) { c.LeadTimeDays = 0 }, "LeadTimeDays"},
		{"negative lead time", func(c *Config) { c.LeadTimeDays = -3 }, "LeadTimeDays"},
		{"negative safety stock days", func(c *Config) { c.SafetyStockDays = -1 }, "SafetyStockDays"},
		{"negative capacity", func(c *Config) { c.FBACapacity = -1 }, "FBACapacity"},
		{"bad baseline window", func(c *Config) { c.BaselineWindow = Window(14) }, "BaselineWindow"},
		{"inverted thresholds", func(c *Config) { c.DecliningThreshold = 1.3 }, "DecliningThreshold"},
		{"unknown allocation policy", func(c *Config) { c.Allocation = "best_fit" }, "Allocation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var cfgErr *ConfigError
			assert.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}
