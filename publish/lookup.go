// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package publish

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/zintix-labs/reelmath/errs"
	"github.com/zintix-labs/reelmath/optimizer"
	"github.com/zintix-labs/reelmath/spec"
)

var (
	lookupHeader   = []string{"simulation_id", "weight", "payout_multiplier"}
	criteriaHeader = []string{"simulation_id", "criteria"}
)

// WriteLookupTable simulation_id,weight,payout_multiplier
func WriteLookupTable(path string, pop []optimizer.Outcome) error {
	return writeCSV(path, lookupHeader, len(pop), func(i int) []string {
		o := pop[i]
		return []string{
			strconv.Itoa(o.ID),
			strconv.Itoa(o.Weight),
			strconv.FormatFloat(o.Payout, 'f', -1, 64),
		}
	})
}

// WriteCriteriaTable simulation_id,criteria
func WriteCriteriaTable(path string, pop []optimizer.Outcome) error {
	return writeCSV(path, criteriaHeader, len(pop), func(i int) []string {
		return []string{strconv.Itoa(pop[i].ID), pop[i].Criteria}
	})
}

func writeCSV(path string, header []string, n int, row func(i int) []string) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errs.Wrap(err, "create dir for "+path)
	}
	f, err := os.Create(path)
	if err != nil {
		return errs.Wrap(err, "create "+path)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = errs.Wrap(cerr, "close "+path)
		}
	}()
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return errs.Wrap(err, "write header")
	}
	for i := range n {
		if err := w.Write(row(i)); err != nil {
			return errs.Wrap(err, "write row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return errs.Wrap(err, "flush "+path)
	}
	return nil
}

// ReadLookupTable 讀回結果表。
//
// 同目錄下若有對應的 lookUpTableIdToCriteria 檔會一併讀入類別，否則類別為 basegame。
func ReadLookupTable(path string) ([]optimizer.Outcome, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Wrap(err, "open lookup table")
	}
	defer f.Close()
	pop, err := decodeLookup(f)
	if err != nil {
		return nil, errs.Wrap(err, "decode "+path)
	}

	crit := criteriaPathFor(path)
	cf, err := os.Open(crit)
	if err != nil {
		return pop, nil
	}
	defer cf.Close()
	byID, err := decodeCriteria(cf)
	if err != nil {
		return nil, errs.Wrap(err, "decode "+crit)
	}
	for i := range pop {
		if c, ok := byID[pop[i].ID]; ok {
			pop[i].Criteria = c
		}
	}
	return pop, nil
}

func criteriaPathFor(path string) string {
	dir, base := filepath.Split(path)
	return filepath.Join(dir, strings.Replace(base, "lookUpTable_", "lookUpTableIdToCriteria_", 1))
}

func decodeLookup(r io.Reader) ([]optimizer.Outcome, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(lookupHeader)
	head, err := cr.Read()
	if err != nil {
		return nil, errs.Warnf("lookup table header: %v", err)
	}
	if strings.Join(head, ",") != strings.Join(lookupHeader, ",") {
		return nil, errs.Warnf("lookup table header mismatch: %v", head)
	}
	var pop []optimizer.Outcome
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return pop, nil
		}
		if err != nil {
			return nil, errs.Warnf("lookup table row: %v", err)
		}
		id, err1 := strconv.Atoi(rec[0])
		w, err2 := strconv.Atoi(rec[1])
		p, err3 := strconv.ParseFloat(rec[2], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			return nil, errs.Warnf("lookup table row %v is malformed", rec)
		}
		if w < 1 || p < 0 {
			return nil, errs.Warnf("lookup table row %v: weight must be >= 1 and payout >= 0", rec)
		}
		pop = append(pop, optimizer.Outcome{ID: id, Weight: w, Payout: p, Criteria: spec.DefaultCriteria})
	}
}

func decodeCriteria(r io.Reader) (map[int]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(criteriaHeader)
	if _, err := cr.Read(); err != nil {
		return nil, errs.Warnf("criteria table header: %v", err)
	}
	out := make(map[int]string)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, errs.Warnf("criteria table row: %v", err)
		}
		id, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, errs.Warnf("criteria table row %v is malformed", rec)
		}
		out[id] = rec[1]
	}
}
