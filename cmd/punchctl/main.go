// punchctl 终端考勤客户端：实时时钟与打卡、日报/周报浏览、打卡修正。
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"punchdesk/config"
	"punchdesk/internal/model"
	"punchdesk/internal/repository"
	"punchdesk/internal/service"
	"punchdesk/internal/upstream"
	"punchdesk/pkg/inflight"
	applogger "punchdesk/pkg/logger"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

// app 子命令共享的运行环境
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	api    upstream.AttendanceAPI
	svc    *service.Service
	ctx    context.Context
	me     *model.Employee
	zone   string
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		token      string
		a          app
	)

	cmd := &cobra.Command{
		Use:           "punchctl",
		Short:         "考勤终端客户端",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd.Context(), configPath, token)
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "配置文件路径")
	cmd.PersistentFlags().StringVar(&token, "token", "", "Bearer Token（默认读取环境变量 PUNCHDESK_TOKEN）")

	cmd.AddCommand(
		statusCmd(&a),
		toggleCmd(&a),
		clockCmd(&a),
		reportCmd(&a),
		punchesCmd(&a),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	cobra.OnFinalize(stop)
	cmd.SetContext(ctx)
	return cmd
}

func (a *app) init(ctx context.Context, configPath, token string) error {
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	// 终端输出优先，日志只记录警告以上
	cfg.Log.Level, cfg.Log.Format = "warn", "console"
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		return err
	}

	if token == "" {
		token = os.Getenv("PUNCHDESK_TOKEN")
	}
	if token == "" {
		return fmt.Errorf("缺少 Token：使用 --token 或设置 PUNCHDESK_TOKEN")
	}

	a.cfg, a.logger = cfg, logger
	a.ctx = upstream.WithToken(ctx, token)
	a.api = upstream.NewClient(&cfg.Upstream, logger, nil)
	a.svc = service.NewService(service.Deps{
		Cfg:    cfg,
		Repo:   repository.NewRepository(nil),
		API:    a.api,
		Guard:  inflight.NewMemoryGuard(),
		Logger: logger,
	})

	me, err := a.svc.Auth.CurrentUser(a.ctx)
	if err != nil {
		return fmt.Errorf("读取用户资料失败: %w", err)
	}
	a.me, a.zone = me, a.svc.Auth.Zone(me)
	return nil
}
