package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"punchdesk/internal/clock"
	"punchdesk/internal/punch"
	apperrors "punchdesk/pkg/errors"
)

func statusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "查看当前打卡状态",
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := a.svc.Punch.Status(a.ctx, a.zone)
			if err != nil {
				return err
			}
			printStatus(cmd.OutOrStdout(), st.Status, a.zone)
			return nil
		},
	}
}

func toggleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle",
		Short: "上班/下班打卡",
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := a.svc.Punch.Toggle(a.ctx, a.me.UID, a.zone)
			if err != nil {
				return err
			}
			printStatus(cmd.OutOrStdout(), st.Status, a.zone)
			return nil
		},
	}
}

func printStatus(w io.Writer, st punch.Status, zone string) {
	fmt.Fprintf(w, "状态: %s  下一步: %s  (%s)\n", st.State, st.Next, zone)
	fmt.Fprintf(w, "%s\n", st.Log)
}

// ── clock ──

func clockCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clock",
		Short: "实时时钟；输入 p 回车打卡，q 回车退出",
		RunE: func(cmd *cobra.Command, _ []string) error {
			initial, err := a.svc.Punch.Status(a.ctx, a.zone)
			if err != nil {
				return err
			}
			tracker := punch.NewTracker(a.api, initial.Status, a.zone)
			return runClock(a, cmd.OutOrStdout(), os.Stdin, tracker)
		},
	}
}

func runClock(a *app, out io.Writer, in io.Reader, tracker *punch.Tracker) error {
	loc := clock.Resolve(a.zone, "")

	var outMu sync.Mutex
	say := func(format string, args ...interface{}) {
		outMu.Lock()
		defer outMu.Unlock()
		fmt.Fprintf(out, format, args...)
	}

	ctx, cancel := context.WithCancel(a.ctx)
	defer cancel()
	lines := readLines(ctx, in)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	render := func(now time.Time) {
		st := tracker.Status()
		busy := ""
		if tracker.InFlight() {
			busy = " …"
		}
		say("\r%s  %s%s  %s   ", now.In(loc).Format("2006-01-02 15:04:05"), st.State, busy, st.Log)
	}
	render(time.Now())

	for {
		select {
		case <-ctx.Done():
			say("\n")
			return nil
		case now := <-ticker.C:
			render(now)
		case line, ok := <-lines:
			if !ok || line == "q" {
				say("\n")
				return nil
			}
			if line != "p" {
				continue
			}
			go func() {
				if _, err := tracker.Toggle(a.ctx); err != nil {
					if errors.Is(err, apperrors.ErrActionInFlight) {
						say("\n打卡进行中，请稍候\n")
						return
					}
					say("\n打卡失败: %v\n", err)
				}
			}()
		}
	}
}

// readLines 逐行读取输入；ctx 结束后停止发送并关闭通道
func readLines(ctx context.Context, in io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- strings.TrimSpace(sc.Text()):
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}
