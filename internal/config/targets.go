package config

// Target names one value to extract from a detected report table: the
// cell at the intersection of a location column and a (fuel, metric)
// row. Name becomes the column header in the consolidated output.
type Target struct {
	// Name is the output column for this target.
	Name string `yaml:"name" mapstructure:"name"`
	// Location selects the table column (port/refinery name).
	Location string `yaml:"location" mapstructure:"location"`
	// Fuel selects the row group (fuel type).
	Fuel string `yaml:"fuel" mapstructure:"fuel"`
	// Metric selects the row within the fuel group.
	Metric string `yaml:"metric" mapstructure:"metric"`
	// LocationLabels are accepted synonyms for Location. Optional.
	LocationLabels []string `yaml:"location_labels" mapstructure:"location_labels"`
	// FuelLabels are accepted synonyms for Fuel. Optional.
	FuelLabels []string `yaml:"fuel_labels" mapstructure:"fuel_labels"`
	// MetricLabels are accepted synonyms for Metric. Optional.
	MetricLabels []string `yaml:"metric_labels" mapstructure:"metric_labels"`
	// MatchBlankMetric accepts a blank metric cell as a match. The
	// source tables leave the metric cell empty on the price row of
	// each fuel group.
	MatchBlankMetric bool `yaml:"match_blank_metric" mapstructure:"match_blank_metric"`
}

// Validate checks if the target is complete.
func (t *Target) Validate() error {
	if t.Name == "" {
		return ErrMissingTargetName
	}
	if t.Location == "" || t.Fuel == "" || t.Metric == "" {
		return ErrIncompleteTarget
	}
	return nil
}

// LocationSynonyms returns all accepted labels for the location.
func (t *Target) LocationSynonyms() []string {
	return append([]string{t.Location}, t.LocationLabels...)
}

// FuelSynonyms returns all accepted labels for the fuel type.
func (t *Target) FuelSynonyms() []string {
	return append([]string{t.Fuel}, t.FuelLabels...)
}

// MetricSynonyms returns all accepted labels for the metric.
func (t *Target) MetricSynonyms() []string {
	return append([]string{t.Metric}, t.MetricLabels...)
}

// DefaultTargets returns the extraction targets for the PPI report
// tables published by Abicom.
func DefaultTargets() []Target {
	return []Target{
		{
			Name:             "paulinia_diesel_preco",
			Location:         "Paulínia",
			Fuel:             "Óleo Diesel A",
			Metric:           "Preço (R$/L)",
			MatchBlankMetric: true,
		},
		{
			Name:     "paulinia_diesel_defasado",
			Location: "Paulínia",
			Fuel:     "Óleo Diesel A",
			Metric:   "% Defasado",
		},
		{
			Name:     "paulinia_gasolina_defasado",
			Location: "Paulínia",
			Fuel:     "Gasolina A",
			Metric:   "% Defasado",
		},
		{
			Name:     "itaqui_diesel_ppi",
			Location: "Itaqui",
			Fuel:     "Óleo Diesel A",
			Metric:   "PPI (RS/L)",
			MetricLabels: []string{
				"PPI (R$/L)",
			},
		},
		{
			Name:     "itaqui_gasolina_defasagem",
			Location: "Itaqui",
			Fuel:     "Gasolina A",
			Metric:   "Defasagem (RS/L)",
			MetricLabels: []string{
				"Defasagem (R$/L)",
			},
		},
		{
			Name:             "aratu_diesel_preco",
			Location:         "Aratu",
			Fuel:             "Óleo Diesel A",
			Metric:           "Preço (R$/L)",
			MatchBlankMetric: true,
		},
		{
			Name:     "aratu_gasolina_ppi",
			Location: "Aratu",
			Fuel:     "Gasolina A",
			Metric:   "PPI (RS/L)",
			MetricLabels: []string{
				"PPI (R$/L)",
			},
		},
	}
}
