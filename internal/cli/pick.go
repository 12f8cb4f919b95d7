package cli

import (
	"errors"

	"github.com/ncruces/zenity"
)

// SelectPassFile opens a native file picker for a single render-pass
// image. The second return is false when the user cancels the dialog.
func SelectPassFile(title string) (string, bool, error) {
	selected, err := zenity.SelectFile(
		zenity.Title(title),
		zenity.FileFilters{
			{Name: "Render passes", Patterns: []string{"*.png"}},
		},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return "", false, nil
		}
		return "", false, err
	}
	return selected, true, nil
}
