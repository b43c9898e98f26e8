package writers

import "github.com/helviojunior/pathaudit/pkg/models"

// Writer is a results writer
type Writer interface {
	Write(*models.FileResult) error
}
