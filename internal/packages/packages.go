// Package packages 列出当前二进制依赖的模块及版本。
package packages

import (
	"errors"
	"fmt"
	"io"
	"runtime/debug"
	"sort"
	"text/tabwriter"
)

// ErrNoBuildInfo 二进制未携带构建信息
var ErrNoBuildInfo = errors.New("构建信息不可用")

// Package 依赖模块
type Package struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// List 读取当前二进制的依赖列表
func List() ([]Package, error) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return nil, ErrNoBuildInfo
	}
	return FromBuildInfo(info), nil
}

// FromBuildInfo 按名称排序的依赖列表，replace 的模块使用替换后的版本
func FromBuildInfo(info *debug.BuildInfo) []Package {
	out := make([]Package, 0, len(info.Deps))
	for _, dep := range info.Deps {
		version := dep.Version
		if dep.Replace != nil && dep.Replace.Version != "" {
			version = dep.Replace.Version
		}
		out = append(out, Package{Name: dep.Path, Version: version})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

// WriteTable 以表格形式输出
func WriteTable(w io.Writer, pkgs []Package) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Library\tVersi")
	for _, p := range pkgs {
		fmt.Fprintf(tw, "%s\t%s\n", p.Name, p.Version)
	}
	return tw.Flush()
}
