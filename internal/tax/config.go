package tax

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// TableHolder serves the country tax table. The compiled-in defaults can be
// overridden by a tax.yml config file, reloaded on change so account
// corrections don't need a redeploy.
type TableHolder struct {
	current atomic.Value // holds map[string]TableEntry
}

func NewTableHolder() (*TableHolder, error) {
	v := viper.New()

	v.SetConfigName("tax")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/bmd-exporter")
	v.AddConfigPath(".")

	v.SetEnvPrefix("BMD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	holder := &TableHolder{}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		holder.current.Store(DefaultTable())
		return holder, nil
	}

	table, err := unmarshalTable(v)
	if err != nil {
		return nil, err
	}
	holder.current.Store(table)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		updated, err := unmarshalTable(v)
		if err != nil {
			zap.L().Warn("tax table reload failed, keeping previous table",
				zap.String("file", e.Name),
				zap.Error(err),
			)
			return
		}
		holder.current.Store(updated)
		zap.L().Info("tax table reloaded", zap.Int("countries", len(updated)))
	})

	return holder, nil
}

// NewStaticHolder returns a holder pinned to the given table. Used by tests
// and anywhere hot reload is undesirable.
func NewStaticHolder(table map[string]TableEntry) *TableHolder {
	h := &TableHolder{}
	h.current.Store(table)
	return h
}

// Table returns the active country table.
func (h *TableHolder) Table() map[string]TableEntry {
	return h.current.Load().(map[string]TableEntry)
}

func unmarshalTable(v *viper.Viper) (map[string]TableEntry, error) {
	var table map[string]TableEntry
	if err := v.UnmarshalKey("countries", &table); err != nil {
		return nil, err
	}
	if len(table) == 0 {
		return DefaultTable(), nil
	}
	if err := validateTable(table); err != nil {
		return nil, err
	}

	normalized := make(map[string]TableEntry, len(table))
	for iso, entry := range table {
		normalized[strings.ToUpper(iso)] = entry
	}
	return normalized, nil
}

func validateTable(table map[string]TableEntry) error {
	for iso, entry := range table {
		if len(iso) != 2 {
			return fmt.Errorf("tax table: %q is not an ISO2 country code", iso)
		}
		if entry.Account == "" {
			return fmt.Errorf("tax table: country %s has no account", iso)
		}
		if entry.Percent < 0 || entry.Percent > 100 {
			return fmt.Errorf("tax table: country %s has invalid percent %d", iso, entry.Percent)
		}
	}
	return nil
}
