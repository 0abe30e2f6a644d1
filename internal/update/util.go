package update

import (
	"github.com/SK-Enting-Zhu/mcgill-agenda/internal/model"
	"github.com/SK-Enting-Zhu/mcgill-agenda/internal/notes"
)

func metadataFor(rawNotes string) model.EventMetadata {
	_, meta := notes.Decode(rawNotes)
	return meta
}
