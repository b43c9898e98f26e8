package writers

import (
	"sync"

	"github.com/helviojunior/pathaudit/pkg/database"
	"github.com/helviojunior/pathaudit/pkg/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DbWriter is a Database writer
type DbWriter struct {
	URI         string
	ControlOnly bool
	conn        *gorm.DB
	mutex       sync.Mutex
	ReadOnly    bool
}

// NewDbWriter initialises a database writer
func NewDbWriter(uri string, debug bool) (*DbWriter, error) {
	c, err := database.Connection(uri, false, debug)
	if err != nil {
		return nil, err
	}

	// the same result may be handed to several database writers
	if _, ok := c.Statement.Clauses["ON CONFLICT"]; !ok {
		c = c.Clauses(clause.OnConflict{UpdateAll: true}).Session(&gorm.Session{})
	}

	return &DbWriter{
		URI:         uri,
		ControlOnly: false,
		conn:        c,
		mutex:       sync.Mutex{},
		ReadOnly:    false,
	}, nil
}

// Write results to the database
func (dw *DbWriter) Write(result *models.FileResult) error {

	if dw.ReadOnly {
		return nil
	}

	dw.mutex.Lock()
	defer dw.mutex.Unlock()

	if dw.ControlOnly {
		// Save only the file record
		return dw.conn.Create(result.Clone()).Error
	}

	return dw.conn.Session(&gorm.Session{CreateBatchSize: 200}).Create(result).Error
}

// WriteProtected stores the unscannable files of a session
func (dw *DbWriter) WriteProtected(files []models.ProtectedFile) error {
	if dw.ReadOnly || len(files) == 0 {
		return nil
	}

	dw.mutex.Lock()
	defer dw.mutex.Unlock()

	rows := make([]models.ProtectedFile, len(files))
	copy(rows, files)
	return dw.conn.Create(&rows).Error
}

// Close the underlying connection
func (dw *DbWriter) Close() error {
	db, err := dw.conn.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
