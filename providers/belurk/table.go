package belurk

import (
	"errors"
	"fmt"

	"ProxyLeaseCheck/source"
	"ProxyLeaseCheck/types"
	"ProxyLeaseCheck/utils"
	webscraping "ProxyLeaseCheck/webScraping"

	"go.uber.org/zap"
)

// ProcessTable waits for the proxy table and writes one line per row with
// the row's IP and date cells. Rows without such cells produce an empty line.
func (s *BelurkSource) ProcessTable() bool {
	if err := s.processTable(); err != nil {
		s.fail(source.StepExtraction, err)
		return false
	}
	return true
}

func (s *BelurkSource) processTable() error {
	var tableBody webscraping.Element
	if err := s.driver.Wait(webscraping.ElementPresent(tableBodySelector, &tableBody), s.timeouts.Table); err != nil {
		if errors.Is(err, webscraping.ErrWaitTimeout) {
			return fmt.Errorf("%w: %w", source.ErrExtraction, err)
		}
		return interactionError(err)
	}

	rows, err := tableBody.FindElements(rowSelector)
	if err != nil {
		return interactionError(err)
	}
	s.logger.Debug("proxy table found", zap.String("step", string(source.StepExtraction)), zap.Int("rows", len(rows)))

	for i, rowElement := range rows {
		row, err := readRow(i, rowElement)
		if err != nil {
			return interactionError(err)
		}
		fmt.Fprintln(s.out, utils.FormatRow(row.Cells))
	}
	return nil
}

func readRow(index int, rowElement webscraping.Element) (types.TableRow, error) {
	cells, err := rowElement.FindElements(cellSelector)
	if err != nil {
		return types.TableRow{}, err
	}
	row := types.TableRow{Index: index, Cells: make([]string, 0, len(cells))}
	for _, cell := range cells {
		text, err := cell.Text()
		if err != nil {
			return types.TableRow{}, fmt.Errorf("row %d: %w", index, err)
		}
		row.Cells = append(row.Cells, text)
	}
	return row, nil
}
