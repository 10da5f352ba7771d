package writers

import "github.com/helviojunior/abapscan/pkg/models"

// Writer is a results writer
type Writer interface {
	Write(*models.ScanResult) error
}
