// Command rcvreport analyzes an exported ranked-choice ballot set: it
// reports the Condorcet winner and writes the pairwise, later-choice and
// hierarchy data used for charts.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/semog/rankbot/election"
	"go.uber.org/automaxprocs/maxprocs"
	"k8s.io/klog"
)

func main() {
	klog.InitFlags(nil)
	ballotsPath := flag.String("ballots", "", "compact ballot file, 5 bytes per ballot")
	candsPath := flag.String("cands", "", "comma-separated candidate list for -ballots")
	csvPath := flag.String("csv", "", "csv export with one voter's ranked candidate names per row")
	outDir := flag.String("out", "./out", "directory for the report files")
	workers := flag.Int("workers", 0, "goroutines for the pairwise matrix, 0 for one per CPU")
	compactOut := flag.String("compact-out", "", "also write the csv input as cands.csv and ballots.bin into this directory")
	quiet := flag.Bool("quiet", false, "do not print the markdown summary")
	flag.Parse()

	undoMaxprocs, err := maxprocs.Set(maxprocs.Logger(klog.V(1).Infof))
	if err != nil {
		klog.Warningf("could not set GOMAXPROCS: %v", err)
	}
	defer undoMaxprocs()

	if err := run(*ballotsPath, *candsPath, *csvPath, *outDir, *compactOut, *workers, *quiet); err != nil {
		klog.Errorf("%v", err)
		klog.Flush()
		os.Exit(1)
	}
	klog.Flush()
}

func run(ballotsPath, candsPath, csvPath, outDir, compactOut string, workers int, quiet bool) error {
	var (
		roster  *election.Roster
		ballots []election.Ballot
		err     error
	)
	switch {
	case csvPath != "":
		roster, ballots, err = loadCSV(csvPath)
		if err != nil {
			return err
		}
		if compactOut != "" {
			if err = writeCompact(compactOut, roster, ballots); err != nil {
				return err
			}
		}
	case ballotsPath != "" && candsPath != "":
		roster, ballots, err = loadCompact(ballotsPath, candsPath)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("either -csv or both -ballots and -cands are required")
	}
	klog.Infof("Analyzing %d ballots for %d candidates", len(ballots), roster.Len())

	rep, err := election.Run(roster, ballots, election.Options{Workers: workers})
	if err != nil {
		if election.IsIntegrityError(err) {
			return fmt.Errorf("ballot data is inconsistent with the candidate list: %v", err)
		}
		return err
	}

	if !quiet {
		if err = printSummary(os.Stdout, rep); err != nil {
			return err
		}
	}
	return writeReport(outDir, rep)
}
