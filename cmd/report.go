package cmd

import (
    "bufio"
    "encoding/json"
    "fmt"
    "io"
    "os"
    "regexp"
    "strings"
    "time"

    "github.com/helviojunior/pathaudit/internal/ascii"
    "github.com/helviojunior/pathaudit/pkg/database"
    "github.com/helviojunior/pathaudit/pkg/log"
    "github.com/helviojunior/pathaudit/pkg/models"
    "github.com/helviojunior/pathaudit/pkg/writers"
    "github.com/spf13/cobra"
    "golang.org/x/term"
    "gorm.io/gorm"
)

type ConvStatus struct {
    Converted int
    NAS int
    Other int
    Spin string
    IsTerminal bool
}

var dateFilter = ""
var rptFilter = ""
var nasOnly = false
var filterList = []string{}
var fromDate *time.Time
var reportCmd = &cobra.Command{
    Use:   "report",
    Short: "Work with pathaudit reports",
    Long: ascii.LogoHelp(ascii.Markdown(`
# report

Work with pathaudit reports.
`)),
    PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
        var err error

        // Annoying quirk, but because I'm overriding PersistentPreRun
        // here which overrides the parent it seems.
        // So we need to explicitly call the parent's one now.
        if err = rootCmd.PersistentPreRunE(cmd, args); err != nil {
            return err
        }

        startTime = time.Now()

        re := regexp.MustCompile(`[^a-zA-Z0-9@_.\\$-]`)
        for _, s1 := range strings.Split(rptFilter, ",") {
            s2 := strings.ToLower(strings.Trim(s1, " "))
            s2 = re.ReplaceAllString(s2, "")
            if s2 != "" {
                filterList = append(filterList, s2)
            }
        }

        if dateFilter != "" {
            t, err := time.Parse("2006-01-02", dateFilter)
            if err != nil {
                return err
            }
            fromDate = &t
            log.Warn("Date filter (date-from): " + t.Format("2006-01-02"))
        }

        if len(filterList) > 0 {
            log.Warn("Filter list: " + strings.Join(filterList, ", "))
        }

        return nil
    },
}

func init() {
    rootCmd.AddCommand(reportCmd)

    reportCmd.PersistentFlags().StringVar(&rptFilter, "filter", "", "Comma-separated terms to filter detections by path or file")
    reportCmd.PersistentFlags().StringVar(&dateFilter, "date-from", "", "Minimum scan date to convert. (Format: yyyy-mm-dd)")
    reportCmd.PersistentFlags().BoolVar(&nasOnly, "nas-only", false, "Only keep NAS shared drive detections")
}

func newConvStatus() *ConvStatus {
    return &ConvStatus{
        IsTerminal: term.IsTerminal(int(os.Stdin.Fd())),
    }
}

func (st *ConvStatus) Print() {
    if st.IsTerminal {
        st.Spin = ascii.GetNextSpinner(st.Spin)

        fmt.Fprintf(os.Stderr, "%s\n %s converted %d: nas: %d, other: %d\r\033[A",
            "                                                                        ",
            ascii.ColoredSpin(st.Spin),
            st.Converted,
            st.NAS,
            st.Other)

    }else{
        log.Info("STATUS",
            "converted", st.Converted, "nas", st.NAS, "other", st.Other)
    }
}

func (st *ConvStatus) Add(file *models.FileResult) {
    st.Converted++
    for _, d := range file.Detections {
        if d.IsNAS() {
            st.NAS++
        } else {
            st.Other++
        }
    }
}

func containsFilterWord(s string) bool {
    //If filter list is empty, always return true
    if len(filterList) == 0 {
        return true
    }

    s = strings.ToLower(strings.Trim(s, " "))
    if s == "" {
        return false
    }
    for _, f := range filterList {
        if strings.Contains(s, f) {
            return true
        }
    }
    return false
}

// getFilteredOnly returns the file with only the detections that pass
// the report filters, or nil when nothing is left
func getFilteredOnly(file models.FileResult) *models.FileResult {
    if fromDate != nil && file.ScannedAt.Before(*fromDate) {
        return nil
    }

    nf := file.Clone()
    nf.ID = file.ID
    for _, d := range file.Detections {
        if nasOnly && !d.IsNAS() {
            continue
        }
        if containsFilterWord(d.Path) || containsFilterWord(d.SourceFile) {
            nf.Detections = append(nf.Detections, d)
        }
    }

    if len(nf.Detections) == 0 && (nasOnly || len(filterList) > 0 || !file.Failed) {
        return nil
    }

    return nf
}

func clearScreen(){
    ascii.ClearLine()
    ascii.ShowCursor()
}

func convertFromDbTo(from string, writer writers.Writer, status *ConvStatus) error {
    defer clearScreen()
    ascii.HideCursor()

    log.Info("starting conversion...")
    conn, err := database.Connection(fmt.Sprintf("sqlite:///%s", from), true, false)
    if err != nil {
        return err
    }

    files := []models.FileResult{}
    query := conn.Model(&models.FileResult{}).Preload("Detections").Order("id")
    return query.FindInBatches(&files, 100, func(tx *gorm.DB, batch int) error {
        for _, file := range files {
            logger := log.With("id", file.ID, "file", file.FileName)

            newResult := getFilteredOnly(file)
            if newResult == nil {
                continue
            }

            logger.Debug("Converting file!")
            newResult.ID = 0
            for i := range newResult.Detections {
                newResult.Detections[i].ID = 0
                newResult.Detections[i].FileID = 0
            }
            if err := writer.Write(newResult); err != nil {
                return err
            }
            status.Add(newResult)
        }
        return nil
    }).Error
}

func convertFromJsonlTo(from string, writer writers.Writer, status *ConvStatus) error {
    defer clearScreen()
    ascii.HideCursor()

    log.Info("starting conversion...")

    file, err := os.Open(from)
    if err != nil {
        return err
    }
    defer file.Close()

    reader := bufio.NewReader(file)
    for {
        line, err := reader.ReadBytes('\n')
        if err != nil {
            if err == io.EOF {
                if len(line) == 0 {
                    break // End of file
                }
                // Handle the last line without '\n'
            } else {
                return err
            }
        }

        var result models.FileResult
        if err := json.Unmarshal(line, &result); err != nil {
            log.Error("could not unmarshal JSON line", "err", err)
            continue
        }

        newResult := getFilteredOnly(result)
        if newResult != nil {
            newResult.ID = 0
            if err := writer.Write(newResult); err != nil {
                return err
            }
            status.Add(newResult)
        }

        if err == io.EOF {
            break
        }
    }

    return nil
}
