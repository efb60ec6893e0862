package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"punchdesk/internal/dashboard"
	"punchdesk/internal/dto"
	"punchdesk/internal/report"
)

func reportCmd(a *app) *cobra.Command {
	var (
		anchor      string
		query       string
		interactive bool
	)

	cmd := &cobra.Command{
		Use:       "report daily|weekly",
		Short:     "查看日报/周报；交互模式下 n 下一期，p 上一期，/关键字 搜索，q 退出",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"daily", "weekly"},
		RunE: func(cmd *cobra.Command, args []string) error {
			view := dashboard.NewReportView(a.svc.Report, dashboard.Period(args[0]))
			view.SetQuery(query)

			resp, err := view.Load(a.ctx, anchor)
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), resp)
			if !interactive {
				return nil
			}
			return navigate(a, cmd.OutOrStdout(), os.Stdin, view)
		},
	}

	cmd.Flags().StringVarP(&anchor, "date", "d", "", "日报日期或周报开始日期（YYYY-MM-DD）")
	cmd.Flags().StringVarP(&query, "query", "q", "", "按姓名或部门搜索")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "交互浏览")
	return cmd
}

func navigate(a *app, out io.Writer, in io.Reader, view *dashboard.ReportView) error {
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())

		var (
			resp *dto.ReportResponse
			err  error
		)
		switch {
		case line == "q":
			return nil
		case line == "n":
			resp, err = view.Next(a.ctx)
		case line == "p":
			resp, err = view.Prev(a.ctx)
		case strings.HasPrefix(line, "/"):
			view.SetQuery(strings.TrimPrefix(line, "/"))
			resp, err = view.Reload(a.ctx)
		default:
			continue
		}

		if errors.Is(err, dashboard.ErrSuperseded) {
			continue
		}
		if err != nil {
			fmt.Fprintf(out, "加载失败: %v\n", err)
			continue
		}
		printReport(out, resp)
	}
	return sc.Err()
}

func printReport(out io.Writer, resp *dto.ReportResponse) {
	if resp.Period == string(dashboard.Weekly) {
		fmt.Fprintf(out, "\n周报 %s ~ %s\n", resp.StartDate, resp.EndDate)
	} else {
		fmt.Fprintf(out, "\n日报 %s\n", resp.Date)
	}
	if resp.RosterDegraded {
		fmt.Fprintln(out, "（名册不可用，未统计缺勤）")
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "员工\t部门\t班次\t上班\t下班\t正常\t加班\t夜班\t迟到\t早退\t状态")
	for _, r := range resp.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Name, r.Department, r.Shift,
			report.Deref(r.TimeIn), report.Deref(r.TimeOut),
			report.FormatHours(r.RegularHours), report.FormatHours(r.OvertimeHours), report.FormatHours(r.NightDiffHours),
			report.FormatMinutes(r.LateMinutes), report.FormatMinutes(r.UndertimeMinutes),
			r.Status)
	}
	tw.Flush()

	t := resp.Totals
	fmt.Fprintf(out, "合计 %d 人  出勤 %d  缺勤 %d  迟到 %d  人均正常工时 %s  加班 %s  夜班 %s\n",
		t.Employees, t.Present, t.Absent, t.Late,
		report.FormatHours(t.AvgRegularHours), report.FormatHours(t.OvertimeHours), report.FormatHours(t.NightDiffHours))
}
