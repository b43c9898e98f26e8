package cmd

import (
    "context"
    "errors"
    "log/slog"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/helviojunior/pathaudit/internal/ascii"
    "github.com/helviojunior/pathaudit/internal/tools"
    "github.com/helviojunior/pathaudit/pkg/log"
    "github.com/helviojunior/pathaudit/pkg/readers"
    "github.com/helviojunior/pathaudit/pkg/runner"
    "github.com/helviojunior/pathaudit/pkg/writers"
    "github.com/spf13/cobra"
)

var scanRunner *runner.Runner
var filesCmdOptions = &readers.FileReaderOptions{}
var filesCmd = &cobra.Command{
    Use:   "files",
    Short: "Scan office documents from disk",
    Long: ascii.LogoHelp(ascii.Markdown(`
# scan files

Scan office documents from disk. A file, a folder (its files, not
recursive) or a list file with one path per line may be given.

At most 10 files are taken per batch; files with another extension or
larger than the size limit are skipped.
`)),
    Example: `
   - pathaudit scan files -p ~/Desktop/Budget.xlsm
   - pathaudit scan files -p ~/Desktop/reports/ --write-csv --write-csv-file report.csv
   - pathaudit scan files -L files.txt`,
    PreRunE: func(cmd *cobra.Command, args []string) error {
        var err error

        if len(filesCmdOptions.Paths) == 0 && filesCmdOptions.ListFile == "" {
            return errors.New("a file, folder or list file must be specified")
        }

        if filesCmdOptions.ListFile != "" {
            if filesCmdOptions.ListFile, err = tools.ResolveFullPath(filesCmdOptions.ListFile); err != nil {
                return err
            }
            if !tools.FileExists(filesCmdOptions.ListFile) {
                return errors.New("list file is not readable")
            }
            if err = readers.ReadFileList(filesCmdOptions.ListFile, &filesCmdOptions.Paths); err != nil {
                return err
            }
        }

        for i, p := range filesCmdOptions.Paths {
            if filesCmdOptions.Paths[i], err = tools.ResolveFullPath(p); err != nil {
                return err
            }
            if !tools.FileExists(filesCmdOptions.Paths[i]) {
                return errors.New("path is not readable: " + p)
            }
        }
        opts.Scan.Paths = filesCmdOptions.Paths

        // An slog-capable logger to use with runners
        logger := slog.New(log.Logger)

        scanRunner, err = runner.NewRunner(logger, *opts, scanWriters)
        if err != nil {
            return err
        }

        return nil
    },
    RunE: func(cmd *cobra.Command, args []string) error {
        defer scanRunner.Close()

        offered, err := readers.CollectSources(opts.Scan.Paths)
        if err != nil {
            return err
        }

        selected, skipped := readers.Select(offered, opts.Scan.Limits)
        for _, s := range skipped {
            log.Warn("file skipped", "file", s.Name, "reason", s.Reason)
        }
        if len(selected) == 0 {
            return errors.New("no supported files to scan")
        }

        ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
        defer stop()

        scanRunner.OnProgress = func(ev runner.ProgressEvent) {
            if !ev.Done {
                log.Debug("scanning", "file", ev.File, "progress", ev.Percent)
            }
        }

        log.Info("Starting path audit", "files", len(selected))
        session, err := scanRunner.Run(ctx, selected)
        if err != nil && ctx.Err() != nil {
            log.Warn("interrupted, results discarded")
            return nil
        }

        for _, p := range session.ProtectedFiles() {
            log.Warn("file not scanned", "file", p.FileName, "status", p.Status, "reason", p.Reason)
        }

        diff := time.Now().Sub(startTime)
        out := time.Time{}.Add(diff)
        nas, other := session.Counts()
        files, scanned := session.Files()

        st := "Execution statistics\n"
        st += "     -> Elapsed time.....: %s\n"
        st += "     -> Files scanned....: %s of %s\n"
        st += "     -> Skipped..........: %s\n"
        st += "     -> Protected........: %s\n"
        st += "     -> NAS paths........: %s\n"
        st += "     -> Other paths......: %s\n"
        st += "     -> Filtered.........: %s\n"

        log.Warnf(st,
            out.Format("15:04:05"),
            tools.FormatIntComma(scanned),
            tools.FormatIntComma(files),
            tools.FormatIntComma(len(skipped)),
            tools.FormatIntComma(len(session.ProtectedFiles())),
            tools.FormatIntComma(nas),
            tools.FormatIntComma(other),
            tools.FormatIntComma(session.FilteredCount()),
        )
        log.Info(session.Summary())

        if opts.Writer.Csv && !session.CanExport() {
            log.Warn("nothing to export", "err", writers.ErrNothingToExport)
        }

        return err
    },
}

func init() {
    scanCmd.AddCommand(filesCmd)

    filesCmd.Flags().StringSliceVarP(&filesCmdOptions.Paths, "path", "p", []string{}, "A file or folder to scan (repeatable)")
    filesCmd.Flags().StringVarP(&filesCmdOptions.ListFile, "list", "L", "", "A file with one path per line")
}
