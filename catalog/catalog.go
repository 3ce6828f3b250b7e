// Package catalog provides the immutable, indexed drug catalog used by the
// interaction engine. A Catalog is built once from the parsed dataset and
// never mutated; reloads build a fresh Catalog and swap it atomically in
// the data container.
package catalog

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/medsafe/interactions-api/catalog/entities"
)

// Catalog is a read-only snapshot of the drug dataset with all lookup
// indexes precomputed: name/synonym resolution, the interaction adjacency
// map, dosage bands per drug and therapeutic class membership.
type Catalog struct {
	drugs []entities.Drug

	byID   map[string]entities.Drug
	byName map[string]string // normalized name or synonym -> drug ID

	// interactions is the sparse interaction graph, keyed by drug ID with
	// the incident records on each side, plus a flat pair index for O(1)
	// unordered-pair lookups.
	interactions map[string][]entities.InteractionRecord
	pairs        map[string]entities.InteractionRecord

	bands   map[string][]entities.DosageBand
	contras map[string][]entities.Contraindication
	byClass map[string][]string // class -> sorted drug IDs
}

// Build indexes a parsed dataset into a Catalog. The dataset must already
// have passed integrity validation; Build still rejects structural
// problems it cannot represent (colliding names, duplicate pairs) so that
// a catalog can never be constructed in an ambiguous state.
func Build(drugs []entities.Drug, records []entities.InteractionRecord, bands []entities.DosageBand, contras []entities.Contraindication) (*Catalog, error) {
	c := &Catalog{
		drugs:        make([]entities.Drug, len(drugs)),
		byID:         make(map[string]entities.Drug, len(drugs)),
		byName:       make(map[string]string, len(drugs)*2),
		interactions: make(map[string][]entities.InteractionRecord),
		pairs:        make(map[string]entities.InteractionRecord, len(records)),
		bands:        make(map[string][]entities.DosageBand),
		contras:      make(map[string][]entities.Contraindication),
		byClass:      make(map[string][]string),
	}

	copy(c.drugs, drugs)
	sort.Slice(c.drugs, func(i, j int) bool { return c.drugs[i].ID < c.drugs[j].ID })

	for _, drug := range c.drugs {
		if _, exists := c.byID[drug.ID]; exists {
			return nil, fmt.Errorf("duplicate drug identifier: %s", drug.ID)
		}
		c.byID[drug.ID] = drug

		if err := c.indexName(drug.Name, drug.ID); err != nil {
			return nil, err
		}
		for _, synonym := range drug.Synonyms {
			if err := c.indexName(synonym, drug.ID); err != nil {
				return nil, err
			}
		}
		// The canonical ID itself resolves too, so pre-resolved input can
		// go through the same lookup path as free-text mentions.
		if err := c.indexName(drug.ID, drug.ID); err != nil {
			return nil, err
		}

		c.byClass[drug.Class] = append(c.byClass[drug.Class], drug.ID)
	}

	for _, record := range records {
		if _, ok := c.byID[record.DrugA]; !ok {
			return nil, fmt.Errorf("interaction references unknown drug: %s", record.DrugA)
		}
		if _, ok := c.byID[record.DrugB]; !ok {
			return nil, fmt.Errorf("interaction references unknown drug: %s", record.DrugB)
		}
		key := entities.PairKey(record.DrugA, record.DrugB)
		if _, exists := c.pairs[key]; exists {
			return nil, fmt.Errorf("duplicate interaction record for pair %s", key)
		}
		c.pairs[key] = record
		c.interactions[record.DrugA] = append(c.interactions[record.DrugA], record)
		if record.DrugB != record.DrugA {
			c.interactions[record.DrugB] = append(c.interactions[record.DrugB], record)
		}
	}

	for _, band := range bands {
		if _, ok := c.byID[band.DrugID]; !ok {
			return nil, fmt.Errorf("dosage band references unknown drug: %s", band.DrugID)
		}
		c.bands[band.DrugID] = append(c.bands[band.DrugID], band)
	}

	for _, contra := range contras {
		if _, ok := c.byID[contra.DrugID]; !ok {
			return nil, fmt.Errorf("contraindication references unknown drug: %s", contra.DrugID)
		}
		c.contras[contra.DrugID] = append(c.contras[contra.DrugID], contra)
	}

	// Deterministic ordering inside every index so identical datasets
	// always answer queries identically.
	for id := range c.interactions {
		recs := c.interactions[id]
		sort.Slice(recs, func(i, j int) bool {
			return entities.PairKey(recs[i].DrugA, recs[i].DrugB) < entities.PairKey(recs[j].DrugA, recs[j].DrugB)
		})
	}
	for id := range c.bands {
		drugBands := c.bands[id]
		sort.Slice(drugBands, func(i, j int) bool {
			if drugBands[i].AgeMin != drugBands[j].AgeMin {
				return drugBands[i].AgeMin < drugBands[j].AgeMin
			}
			wi, wj := 0.0, 0.0
			if drugBands[i].WeightMin != nil {
				wi = *drugBands[i].WeightMin
			}
			if drugBands[j].WeightMin != nil {
				wj = *drugBands[j].WeightMin
			}
			return wi < wj
		})
	}
	for id := range c.contras {
		drugContras := c.contras[id]
		sort.Slice(drugContras, func(i, j int) bool {
			return drugContras[i].Warning < drugContras[j].Warning
		})
	}
	for class := range c.byClass {
		sort.Strings(c.byClass[class])
	}

	return c, nil
}

func (c *Catalog) indexName(name, id string) error {
	normalized := NormalizeName(name)
	if normalized == "" {
		return fmt.Errorf("drug %s has an empty name or synonym", id)
	}
	if existing, ok := c.byName[normalized]; ok && existing != id {
		return fmt.Errorf("name %q resolves to both %s and %s", name, existing, id)
	}
	c.byName[normalized] = id
	return nil
}

// nameFolder strips diacritics so that mentions like "paracétamol" resolve
// against an unaccented catalog entry.
var nameFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeName canonicalizes a drug mention for index lookups: lower-case,
// diacritics removed, interior whitespace collapsed.
func NormalizeName(name string) string {
	folded, _, err := transform.String(nameFolder, name)
	if err != nil {
		folded = name
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}

// Resolve looks up a drug by canonical ID, display name or synonym.
// Resolution is case-insensitive and diacritic-insensitive.
func (c *Catalog) Resolve(nameOrID string) (entities.Drug, bool) {
	id, ok := c.byName[NormalizeName(nameOrID)]
	if !ok {
		return entities.Drug{}, false
	}
	return c.byID[id], true
}

// DrugByID looks up a drug by its canonical identifier only.
func (c *Catalog) DrugByID(id string) (entities.Drug, bool) {
	drug, ok := c.byID[id]
	return drug, ok
}

// InteractionBetween returns the documented record for an unordered pair,
// if any. A missing record means the pair is undocumented.
func (c *Catalog) InteractionBetween(a, b string) (entities.InteractionRecord, bool) {
	record, ok := c.pairs[entities.PairKey(a, b)]
	return record, ok
}

// InteractionsOf returns all documented records incident to a drug,
// ordered by canonical pair key.
func (c *Catalog) InteractionsOf(id string) []entities.InteractionRecord {
	return c.interactions[id]
}

// DosageBandsOf returns the dosage bands of a drug ordered by age bracket.
func (c *Catalog) DosageBandsOf(id string) []entities.DosageBand {
	return c.bands[id]
}

// ContraindicationsOf returns the contraindications of a drug ordered by
// warning text.
func (c *Catalog) ContraindicationsOf(id string) []entities.Contraindication {
	return c.contras[id]
}

// SameClassAs returns every other drug sharing the therapeutic class of
// the given drug, in ID order. The drug itself is excluded.
func (c *Catalog) SameClassAs(id string) []entities.Drug {
	drug, ok := c.byID[id]
	if !ok {
		return nil
	}
	members := c.byClass[drug.Class]
	peers := make([]entities.Drug, 0, len(members))
	for _, memberID := range members {
		if memberID == id {
			continue
		}
		peers = append(peers, c.byID[memberID])
	}
	return peers
}

// Drugs returns all catalog entries in ID order.
func (c *Catalog) Drugs() []entities.Drug {
	return c.drugs
}

// DrugCount returns the number of catalog entries.
func (c *Catalog) DrugCount() int {
	return len(c.drugs)
}

// InteractionCount returns the number of documented pair records.
func (c *Catalog) InteractionCount() int {
	return len(c.pairs)
}
