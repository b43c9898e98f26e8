package cmd

import (
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "strings"
    "sync"
    "time"

    "github.com/helviojunior/pathaudit/internal/ascii"
    "github.com/helviojunior/pathaudit/internal/tools"
    "github.com/helviojunior/pathaudit/pkg/log"
    "github.com/helviojunior/pathaudit/pkg/writers"
    "github.com/spf13/cobra"
)

var conversionFromExtensions = []string{".sqlite3", ".db", ".jsonl"}
var conversionToExtensions = []string{".sqlite3", ".db", ".jsonl", ".csv"}
var convertCmdFlags = struct {
    fromFile string
    toFile   string

    fromExt string
    toExt   string
}{}
var convertCmd = &cobra.Command{
    Use:   "convert",
    Short: "Convert between SQLite, JSON Lines and CSV report formats",
    Long: ascii.LogoHelp(ascii.Markdown(`
# report convert

Convert between SQLite, JSON Lines and CSV report formats.

A --from-file and --to-file must be specified. The extension used for the
specified filenames will be used to determine the conversion direction and
target. CSV is only available as a target.`)),
    Example: `
   - pathaudit report convert --to-file data.jsonl
   - pathaudit report convert --to-file report.csv --nas-only
   - pathaudit report convert --from-file pathaudit.sqlite3 --to-file data.jsonl --filter filesrv
   - pathaudit report convert --from-file pathaudit.jsonl --to-file db.sqlite3`,
    PreRunE: func(cmd *cobra.Command, args []string) error {
        var err error

        if convertCmdFlags.fromFile == "" {
            return errors.New("from file not set")
        }
        if convertCmdFlags.toFile == "" {
            return errors.New("to file not set")
        }

        convertCmdFlags.fromFile, err = tools.ResolveFullPath(convertCmdFlags.fromFile)
        if err != nil {
            return err
        }

        convertCmdFlags.toFile, err = tools.ResolveFullPath(convertCmdFlags.toFile)
        if err != nil {
            return err
        }

        convertCmdFlags.fromExt = strings.ToLower(filepath.Ext(convertCmdFlags.fromFile))
        convertCmdFlags.toExt = strings.ToLower(filepath.Ext(convertCmdFlags.toFile))

        if convertCmdFlags.fromExt == "" || convertCmdFlags.toExt == "" {
            return errors.New("source and destination files must have extensions")
        }

        if convertCmdFlags.fromExt == convertCmdFlags.toExt && len(filterList) == 0 && !nasOnly {
            return errors.New("👀 source and destination file types must be different")
        }

        if convertCmdFlags.fromFile == convertCmdFlags.toFile {
            return errors.New("source and destination files cannot be the same")
        }

        if !tools.SliceHasStr(conversionFromExtensions, convertCmdFlags.fromExt) {
            return errors.New("unsupported from file type")
        }
        if !tools.SliceHasStr(conversionToExtensions, convertCmdFlags.toExt) {
            return errors.New("unsupported to file type")
        }

        return nil
    },
    RunE: func(cmd *cobra.Command, args []string) error {
        var writer writers.Writer
        var err error

        switch convertCmdFlags.toExt {
        case ".sqlite3", ".db":
            writer, err = writers.NewDbWriter(fmt.Sprintf("sqlite:///%s", convertCmdFlags.toFile), false)
            if err != nil {
                return fmt.Errorf("could not get a database writer up: %w", err)
            }
        case ".jsonl":
            writer, err = writers.NewJsonWriter(convertCmdFlags.toFile)
            if err != nil {
                return fmt.Errorf("could not get a JSON writer up: %w", err)
            }
        case ".csv":
            writer, err = writers.NewCsvWriter(convertCmdFlags.toFile)
            if err != nil {
                return fmt.Errorf("could not get a CSV writer up: %w", err)
            }
        }

        status := newConvStatus()
        done := make(chan struct{})
        wg := sync.WaitGroup{}

        wg.Add(1)
        go func() {
            defer wg.Done()
            ticker := time.NewTicker(time.Second / 4)
            defer ticker.Stop()
            for {
                select {
                case <-done:
                    return
                case <-ticker.C:
                    status.Print()
                }
            }
        }()

        if convertCmdFlags.fromExt == ".jsonl" {
            err = convertFromJsonlTo(convertCmdFlags.fromFile, writer, status)
        } else {
            err = convertFromDbTo(convertCmdFlags.fromFile, writer, status)
        }
        close(done)
        wg.Wait()

        if err != nil {
            return fmt.Errorf("failed to convert: %w", err)
        }

        fmt.Fprintf(os.Stderr, "%s\n%s\r\033[A",
            "                                                                                ",
            "                                                                                ",
        )

        if convertCmdFlags.toExt == ".csv" && status.NAS+status.Other == 0 {
            return writers.ErrNothingToExport
        }

        diff := time.Now().Sub(startTime)
        out := time.Time{}.Add(diff)

        st := "Convertion status\n"
        st += "     -> Elapsed time.....: %s\n"
        st += "     -> Files converted..: %s\n"
        st += "     -> NAS paths........: %s\n"
        st += "     -> Other paths......: %s\n"

        log.Infof(st,
            out.Format("15:04:05"),
            tools.FormatIntComma(status.Converted),
            tools.FormatIntComma(status.NAS),
            tools.FormatIntComma(status.Other),
        )

        return nil
    },
}

func init() {
    reportCmd.AddCommand(convertCmd)

    convertCmd.Flags().StringVar(&convertCmdFlags.fromFile, "from-file", "~/.pathaudit.db", "The file to convert from")
    convertCmd.Flags().StringVar(&convertCmdFlags.toFile, "to-file", "", "The file to convert to. Use .sqlite3 for SQLite, .jsonl for JSON Lines and .csv for the detection report")
}
