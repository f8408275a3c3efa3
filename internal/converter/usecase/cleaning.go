package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shandysiswandi/fileconv/internal/converter/entity"
	"github.com/shandysiswandi/fileconv/internal/pkg/pkgerror"
)

// SetCleaning makes opts the active cleaning options of a file.
//
// Switching an option on applies that transform to the current table.
// Switching an option off rebuilds the table from the parsed copy and
// reapplies what stays on, duplicates first. An option that stays on keeps
// reporting what it changed.
func (u *Usecase) SetCleaning(ctx context.Context, sessionID, fileName string, opts entity.CleaningOptions) (CleaningResult, error) {
	if sessionID == "" || fileName == "" {
		return CleaningResult{}, pkgerror.NewInvalidInput(errors.New("session_id and file_name are required"))
	}

	var result CleaningResult
	err := u.store.Update(ctx, sessionID, func(session *entity.Session) error {
		file, err := readyFile(session, fileName)
		if err != nil {
			return err
		}

		result = applyCleaning(file, opts)
		session.UpdatedAt = u.clock.Now()
		return nil
	})
	if err != nil {
		return CleaningResult{}, mapStoreErr(err)
	}

	slog.InfoContext(ctx, "cleaning applied",
		"session_id", sessionID,
		"file_name", fileName,
		"remove_duplicates", opts.RemoveDuplicates,
		"fill_missing", opts.FillMissing,
	)

	return result, nil
}

func applyCleaning(file *entity.SessionFile, opts entity.CleaningOptions) CleaningResult {
	prev := file.Cleaning
	rebuild := prev.RemoveDuplicates && !opts.RemoveDuplicates || prev.FillMissing && !opts.FillMissing

	var table *entity.Table
	if rebuild {
		table = file.Pristine.Clone()
	} else {
		table = file.Current.Clone()
	}

	result := CleaningResult{
		FileName: file.Upload.Name,
		Options:  opts,
	}

	removed, filled := 0, 0
	if !rebuild {
		removed, filled = file.DuplicatesRemoved, file.MissingFilled
	}

	var notes []string
	if opts.RemoveDuplicates {
		removed += table.DropDuplicates()
		result.Duplicates = CleaningReport{Ran: true, Count: removed, Message: duplicatesMessage(removed)}
		notes = append(notes, result.Duplicates.Message)
	} else {
		removed = 0
	}
	if opts.FillMissing {
		filled += table.FillMissing(entity.MissingSentinel)
		result.Missing = CleaningReport{Ran: true, Count: filled, Message: missingMessage(filled)}
		notes = append(notes, result.Missing.Message)
	} else {
		filled = 0
	}

	file.Current = table
	file.Cleaning = opts
	file.Notes = notes
	file.DuplicatesRemoved = removed
	file.MissingFilled = filled

	result.Rows = table.Len()
	result.Columns = append([]entity.Column(nil), table.Columns...)

	return result
}

func duplicatesMessage(n int) string {
	if n == 0 {
		return "no duplicate values found"
	}
	return fmt.Sprintf("%d duplicates removed", n)
}

func missingMessage(n int) string {
	if n == 0 {
		return "no missing values found"
	}
	return fmt.Sprintf("%d missing values filled", n)
}
