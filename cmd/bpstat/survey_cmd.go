package main

import (
	"github.com/spf13/cobra"

	"bpstat/config"
	"bpstat/report"
	"bpstat/survey"
)

func newSurveyCmd() *cobra.Command {
	var files survey.Files
	cmd := &cobra.Command{
		Use:   "survey",
		Short: "reshape repeated blood-pressure measurements and fit the mixed-model sequence",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := config.Get()
			if files.Demo == "" {
				files.Demo = c.Survey.DemoFile
			}
			if files.Bmx == "" {
				files.Bmx = c.Survey.BmxFile
			}
			if files.Bpx == "" {
				files.Bpx = c.Survey.BpxFile
			}

			wide, err := survey.Load(files)
			if err != nil {
				return err
			}
			long, err := survey.BuildLong(wide)
			if err != nil {
				return err
			}

			bp, _ := long.Float("bp")
			report.PrintHist(cmd.OutOrStdout(), "blood pressure, long form", bp, 16)

			outcomes, err := survey.RunModels(long)
			if err != nil {
				return err
			}
			// model1..model11固定顺序输出
			for _, o := range outcomes {
				if o.OLS != nil {
					report.PrintOLS(cmd.OutOrStdout(), o.Name, o.Desc, o.OLS, o.OLSNames)
					continue
				}
				report.PrintMixed(cmd.OutOrStdout(), o.Name, o.Desc, o.Mixed)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&files.Demo, "demo", "", "人口学抽取表csv (缺省用配置)")
	cmd.Flags().StringVar(&files.Bmx, "bmx", "", "体测抽取表csv (缺省用配置)")
	cmd.Flags().StringVar(&files.Bpx, "bpx", "", "血压抽取表csv (缺省用配置)")
	return cmd
}
