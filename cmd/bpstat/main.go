package main

import (
	"os"

	"github.com/spf13/cobra"

	"bpstat/config"
	"bpstat/infra/observe/log/staticLog"
)

var cfgPath string

func main() {
	root := &cobra.Command{
		Use:   "bpstat",
		Short: "mediation simulation and repeated-measures blood-pressure mixed models",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Init(cfgPath); err != nil {
				return err
			}
			staticLog.InitFile(config.Get().LogFile)
			return nil
		},
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "yaml配置路径, 缺省用内置默认值")
	root.AddCommand(newMediationCmd())
	root.AddCommand(newSurveyCmd())

	if err := root.Execute(); err != nil {
		staticLog.Log.Errorf("bpstat failed: %v", err)
		os.Exit(1)
	}
}
