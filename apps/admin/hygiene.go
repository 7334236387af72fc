package main

import (
	"context"
	"fmt"
)

func (cli *commandLine) hygiene() error {
	report := cli.hygieneSvc.Run(context.Background())
	if report.Failed() {
		return fmt.Errorf("hygiene pass failed; report %s", report.ID)
	}
	fmt.Printf("hygiene pass done (%s)\n", report.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("  phones fixed:    %d\n", report.PhonesFixed)
	fmt.Printf("  phones invalid:  %d\n", report.PhonesInvalid)
	fmt.Printf("  dates adjusted:  %d\n", report.DatesAdjusted)
	fmt.Printf("  titles trimmed:  %d\n", report.TitlesTrimmed)
	fmt.Printf("  texts clipped:   %d\n", report.TextsClipped)
	fmt.Printf("  total errors:    %d\n", report.TotalErrors)
	return nil
}
