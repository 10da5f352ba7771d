package writers

import (
	"sync"

	"github.com/helviojunior/abapscan/pkg/database"
	"github.com/helviojunior/abapscan/pkg/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DbWriter is a Database writer
type DbWriter struct {
	URI         string
	ControlOnly bool
	conn        *gorm.DB
	mutex       sync.Mutex
}

// NewDbWriter initialises a database writer
func NewDbWriter(uri string, debug bool) (*DbWriter, error) {
	c, err := database.Connection(uri, false, debug)
	if err != nil {
		return nil, err
	}

	if _, ok := c.Statement.Clauses["ON CONFLICT"]; !ok {
		c = c.Clauses(clause.OnConflict{UpdateAll: true})
	}

	return &DbWriter{
		URI:         uri,
		ControlOnly: false,
		conn:        c,
		mutex:       sync.Mutex{},
	}, nil
}

// Conn exposes the underlying connection, used by the runner to check
// the control database for already scanned units.
func (dw *DbWriter) Conn() *gorm.DB {
	return dw.conn
}

// Write results to the database
func (dw *DbWriter) Write(result *models.ScanResult) error {
	dw.mutex.Lock()
	defer dw.mutex.Unlock()

	if dw.ControlOnly {
		// the control db tracks scanned units, not their source text
		r1 := result.Clone()
		r1.Code = ""
		return dw.conn.Session(&gorm.Session{CreateBatchSize: 200}).Create(r1).Error
	}

	return dw.conn.Session(&gorm.Session{CreateBatchSize: 200}).Create(result.Clone()).Error
}
