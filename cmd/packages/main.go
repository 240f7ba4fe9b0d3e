package main

import (
	"log"
	"os"

	"github.com/pengawas/pengawas-go/internal/packages"
)

func main() {
	pkgs, err := packages.List()
	if err != nil {
		log.Fatalf("读取依赖失败: %v", err)
	}

	if err := packages.WriteTable(os.Stdout, pkgs); err != nil {
		log.Fatalf("输出失败: %v", err)
	}
}
