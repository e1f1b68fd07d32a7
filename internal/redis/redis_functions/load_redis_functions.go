package redis_functions

import (
	"context"
	"embed"
	"fmt"
	"path"
	"regexp"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

//go:embed *.lua
var fs embed.FS

var (
	shebangRe  = regexp.MustCompile(`^#!lua name=(\w+)`)
	registerRe = regexp.MustCompile(`redis\.register_function\(\s*'(\w+)'`)
)

// library is one embedded Lua file and what it registers.
type library struct {
	name      string
	file      string
	functions []string
	code      string
}

func libraries() ([]library, error) {
	files, err := fs.ReadDir(".")
	if err != nil {
		return nil, fmt.Errorf("read embed dir: %w", err)
	}
	var libs []library
	for _, f := range files {
		if f.IsDir() || path.Ext(f.Name()) != ".lua" {
			continue
		}
		code, err := fs.ReadFile(f.Name())
		if err != nil {
			return nil, err
		}
		m := shebangRe.FindSubmatch(code)
		if m == nil {
			return nil, fmt.Errorf("%s: missing #!lua name= header", f.Name())
		}
		lib := library{name: string(m[1]), file: f.Name(), code: string(code)}
		for _, fm := range registerRe.FindAllSubmatch(code, -1) {
			lib.functions = append(lib.functions, string(fm[1]))
		}
		if len(lib.functions) == 0 {
			return nil, fmt.Errorf("%s: registers no functions", f.Name())
		}
		libs = append(libs, lib)
	}
	return libs, nil
}

// LoadAll loads or replaces every embedded function library in Redis.
func LoadAll(ctx context.Context, rdb *redis.Client) error {
	libs, err := libraries()
	if err != nil {
		return err
	}
	for _, lib := range libs {
		if err := rdb.FunctionLoadReplace(ctx, lib.code).Err(); err != nil {
			return fmt.Errorf("load lua library %s: %w", lib.name, err)
		}
		zap.L().Info("redis.function_loaded",
			zap.String("library", lib.name),
			zap.Strings("functions", lib.functions),
		)
	}
	return nil
}
