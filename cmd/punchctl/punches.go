package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"punchdesk/internal/dashboard"
	"punchdesk/internal/dto"
	"punchdesk/internal/report"
)

func punchesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "punches <uid>",
		Short: "查看员工打卡记录（管理员）",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view := dashboard.NewPunchLogView(a.svc.PunchEdit)
			list, err := view.Select(a.ctx, args[0])
			if err != nil {
				return err
			}
			printPunches(cmd.OutOrStdout(), list)
			return nil
		},
	}
	cmd.AddCommand(editCmd(a))
	return cmd
}

func editCmd(a *app) *cobra.Command {
	var in, out string

	cmd := &cobra.Command{
		Use:   "edit <uid> <punch-id>",
		Short: "修改打卡时间（员工时区 HH:MM）",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := &dto.SavePunchEditRequest{}
			if cmd.Flags().Changed("in") {
				req.PunchIn = &in
			}
			if cmd.Flags().Changed("out") {
				req.PunchOut = &out
			}

			resp, err := a.svc.PunchEdit.SaveEdit(a.ctx, args[0], args[1], req, a.me.UID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "已保存")
			if resp.RefetchFailed {
				fmt.Fprintln(cmd.OutOrStdout(), "刷新打卡记录失败，请稍后运行 punchctl punches", args[0])
				return nil
			}
			printPunches(cmd.OutOrStdout(), resp.Punches)
			return nil
		},
	}

	cmd.Flags().StringVar(&in, "in", "", "上班时间 HH:MM")
	cmd.Flags().StringVar(&out, "out", "", "下班时间 HH:MM")
	return cmd
}

func printPunches(out io.Writer, list []dto.PunchRecordResponse) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\t日期\t上班\t下班\t正常\t已修正")
	for _, p := range list {
		regular := "—"
		if p.Metrics != nil {
			regular = report.FormatHours(p.Metrics.RegularHours)
		}
		edited := ""
		if p.AdminEdited {
			edited = "是"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", p.ID, p.LocalDate, p.LocalIn, report.Deref(p.LocalOut), regular, edited)
	}
	tw.Flush()
}
