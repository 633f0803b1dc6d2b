package main

import (
	"fmt"
	"log"
	"os"

	"github.com/trezcool/learnerair/core"
	logsvc "github.com/trezcool/learnerair/services/logger"
)

func main() {
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		core.Conf,
	)
	logger.Enable(!core.Conf.Debug && core.Conf.RollbarToken != "")

	cli := commandLine{conf: core.Conf}
	err := cli.run(os.Args, os.Stdout)
	if cErr := cli.close(); cErr != nil {
		logger.Error(fmt.Sprintf("closing store: %v", cErr), cErr)
	}
	if err != nil {
		if err != errHelp {
			logger.Error(fmt.Sprintf("\nerror: %s\n", cli.explain(err)), err)
		}
		os.Exit(1)
	}
}
