package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/pvz-animator/pkg/app"
)

var (
	configPath = flag.String("config", "", "动画控制器配置文件路径（为空则使用嵌入的 data/animator.yaml）")
	entityName = flag.String("name", "hero", "演示实体名称")
	verbose    = flag.Bool("verbose", false, "详细日志")
	noSave     = flag.Bool("no-save", false, "不持久化快照")
)

func main() {
	flag.Parse()

	cfg := app.Config{
		Verbose:    *verbose,
		Data:       dataFS,
		ConfigPath: "data/animator.yaml",
		EntityName: *entityName,
		AppName:    "pvz_animator",
	}
	if *configPath != "" {
		// 外部配置：reanim 路径相对于配置文件所在目录
		cfg.Data = os.DirFS(filepath.Dir(*configPath))
		cfg.ConfigPath = filepath.Base(*configPath)
	}
	if *noSave {
		cfg.AppName = ""
	}

	demo, err := app.NewApp(cfg)
	if err != nil {
		log.Fatalf("初始化失败: %v", err)
	}

	ebiten.SetWindowSize(app.WindowWidth*2, app.WindowHeight*2)
	ebiten.SetWindowTitle("Layered Animator Demo")
	ebiten.SetTPS(app.TPS)

	runErr := ebiten.RunGame(demo)

	// 退出时保存快照
	if err := demo.Save(); err != nil {
		log.Printf("[Main] Warning: failed to save snapshot: %v", err)
	}
	if runErr != nil {
		log.Fatal(runErr)
	}
}
