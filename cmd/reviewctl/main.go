// reviewctl 运维命令行：数据库迁移与管理员账号维护
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "reviewctl",
		Short:         "课程评价平台运维工具",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("REVIEW_CONFIG"), "配置文件路径")

	root.AddCommand(
		newMigrateCmd(&configPath),
		newCreateAdminCmd(&configPath),
		newPromoteCmd(&configPath),
	)
	return root
}
