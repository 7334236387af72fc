package main

import (
	"log"
	"os"

	"github.com/projectklase/comunika/core"
	"github.com/projectklase/comunika/core/hygiene"
	"github.com/projectklase/comunika/core/staff"
	emailsvc "github.com/projectklase/comunika/services/email"
	logsvc "github.com/projectklase/comunika/services/logger"
	"github.com/projectklase/comunika/storage/database"
	sqlxrepos "github.com/projectklase/comunika/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	appLogger := logsvc.NewRollbarLogger(logger, conf)
	appLogger.Enable(!conf.Debug)

	// set up DB
	db, err := database.Open(conf)
	errAndDie(err)
	defer db.Close()
	errAndDie(db.Ping())

	// set up repos & services
	studentRepo := sqlxrepos.NewStudentRepository(db)
	postRepo := sqlxrepos.NewPostRepository(db)
	classRepo := sqlxrepos.NewClassRepository(db)
	staffRepo := sqlxrepos.NewStaffRepository(db)
	reportRepo := sqlxrepos.NewReportRepository(db)
	mailSvc := emailsvc.NewConsoleService(conf)

	// start CLI
	cli := commandLine{
		db:         db.DB,
		staffSvc:   staff.NewService(staffRepo),
		hygieneSvc: hygiene.NewService(studentRepo, postRepo, classRepo, reportRepo, mailSvc, appLogger, conf),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
