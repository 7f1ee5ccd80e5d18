package rowstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/common"
	"github.com/xitongsys/parquet-go/reader"
)

// ParquetSource reads every leaf column of a parquet file into rows.
// Repeated (list) columns are skipped since rows are flat.
type ParquetSource struct {
	Path string
}

func (ps ParquetSource) LoadRows(_ context.Context) ([]Row, error) {
	fr, err := local.NewLocalFileReader(ps.Path)
	if err != nil {
		return nil, fmt.Errorf("error in local.NewLocalFileReader: %w", err)
	}
	defer fr.Close()

	pr, err := reader.NewParquetColumnReader(fr, 4)
	if err != nil {
		return nil, fmt.Errorf("error in reader.NewParquetColumnReader: %w", err)
	}
	defer pr.ReadStop()

	numRows := int(pr.GetNumRows())
	rows := make([]Row, numRows)
	for i := range rows {
		rows[i] = make(Row)
	}

	for _, inPath := range pr.SchemaHandler.ValueColumns {
		pathSegs := common.StrToPath(inPath)

		maxRL, err := pr.SchemaHandler.MaxRepetitionLevel(pathSegs)
		if err != nil {
			return nil, fmt.Errorf("error in MaxRepetitionLevel: %w", err)
		}
		if maxRL > 0 {
			continue
		}

		maxDL, err := pr.SchemaHandler.MaxDefinitionLevel(pathSegs)
		if err != nil {
			return nil, fmt.Errorf("error in MaxDefinitionLevel: %w", err)
		}

		colName := externalColumnName(pr.SchemaHandler.InPathToExPath[inPath])

		values, _, dls, err := pr.ReadColumnByPath(inPath, int64(numRows))
		if err != nil {
			return nil, fmt.Errorf("error in ReadColumnByPath for %s: %w", colName, err)
		}

		if err := fillColumn(rows, colName, values, dls, maxDL); err != nil {
			return nil, fmt.Errorf("error filling column %s: %w", colName, err)
		}
	}

	return rows, nil
}

// fillColumn writes one column's values into the row maps, using definition
// levels to place nulls. Some readers return a value slot per row, others
// only return the defined values.
func fillColumn(rows []Row, col string, values []any, dls []int32, maxDL int32) error {
	if len(dls) != len(rows) {
		return fmt.Errorf("column has %d definition levels for %d rows", len(dls), len(rows))
	}
	dense := len(values) != len(dls)
	vi := 0
	for i, dl := range dls {
		if dl < maxDL {
			rows[i][col] = nil
			if !dense {
				vi++
			}
			continue
		}
		if vi >= len(values) {
			return fmt.Errorf("column has fewer values than defined rows")
		}
		rows[i][col] = values[vi]
		vi++
	}
	return nil
}

func externalColumnName(exPath string) string {
	segs := common.StrToPath(exPath)
	if len(segs) > 1 {
		segs = segs[1:]
	}
	return strings.Join(segs, ".")
}
