package cmd

import (
    "log/slog"

    "github.com/helviojunior/pathaudit/internal/ascii"
    "github.com/helviojunior/pathaudit/pkg/api"
    "github.com/helviojunior/pathaudit/pkg/log"
    "github.com/helviojunior/pathaudit/pkg/writers"
    "github.com/spf13/cobra"
)

var serveCmdFlags = struct {
    listen string
    dbURI  string
}{}
var serveCmd = &cobra.Command{
    Use:   "serve",
    Short: "Serve the scanner over HTTP",
    Long: ascii.LogoHelp(ascii.Markdown(`
# serve

Serve the scanner over HTTP.

- POST /api/scan with multipart "files" parts returns the detections as
  JSON, or the CSV report with ?format=csv
- GET /api/health
`)),
    Example: `
   - pathaudit serve
   - pathaudit serve --listen 0.0.0.0:8080 --write-db-uri sqlite:///pathaudit.sqlite3`,
    RunE: func(cmd *cobra.Command, args []string) error {
        listen := serveCmdFlags.listen
        if listen == "" {
            listen = cfg.Server.Listen
        }

        w := []writers.Writer{}
        if serveCmdFlags.dbURI != "" {
            dw, err := writers.NewDbWriter(serveCmdFlags.dbURI, false)
            if err != nil {
                return err
            }
            defer dw.Close()
            w = append(w, dw)
        }

        // The status printer is meaningless for a server
        o := *opts
        o.Logging.Silence = true

        srv := api.NewServer(slog.New(log.Logger), o, w)
        if cfg.Server.MaxUploadMB > 0 {
            srv.MaxUpload = int64(cfg.Server.MaxUploadMB) << 20
        }

        return srv.ListenAndServe(listen)
    },
}

func init() {
    rootCmd.AddCommand(serveCmd)

    serveCmd.Flags().StringVar(&serveCmdFlags.listen, "listen", "", "Address to listen on (default from configuration, 127.0.0.1:8080)")
    serveCmd.Flags().StringVar(&serveCmdFlags.dbURI, "write-db-uri", "", "Also persist every scan to this database URI")
}
