package catalog

import (
	"fmt"

	"github.com/spf13/viper"
)

type overrideFile struct {
	MapSize   int                     `mapstructure:"mapSize"`
	Buildings map[string]BuildingType `mapstructure:"buildings"`
	Units     map[string]UnitType     `mapstructure:"units"`
}

// Load 以内置表为底，用 JSON 文件里的同名条目整体覆盖或新增；path 为空直接返回内置表。
func Load(path string) (*Catalog, error) {
	c := Default()
	if path == "" {
		return c, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	var f overrideFile
	if err := v.Unmarshal(&f); err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", path, err)
	}

	for key, b := range f.Buildings {
		if b.ID == "" {
			b.ID = key
		}
		c.buildings[key] = b
	}
	for key, u := range f.Units {
		if u.ID == "" {
			u.ID = key
		}
		c.units[key] = u
	}
	if f.MapSize > 0 {
		c.mapSize = f.MapSize
	}
	if err := validate(c); err != nil {
		return nil, fmt.Errorf("invalid catalog %s: %w", path, err)
	}
	return c, nil
}
