package model

// Selection is the user's current choice. It is a value type: every edit
// produces a new Selection that replaces the previous one wholesale.
type Selection struct {
	Country   *Country
	Indicator *Indicator
	Range     YearRange
}

// NewSelection returns an empty selection over the given range.
func NewSelection(r YearRange) Selection {
	return Selection{Range: r}
}

// Complete reports whether both a country and an indicator are chosen.
func (s Selection) Complete() bool {
	return s.Country != nil && s.Indicator != nil
}

// CountryID returns the selected country id or "".
func (s Selection) CountryID() string {
	if s.Country == nil {
		return ""
	}
	return s.Country.ID
}

// IndicatorID returns the selected indicator id or "".
func (s Selection) IndicatorID() string {
	if s.Indicator == nil {
		return ""
	}
	return s.Indicator.ID
}

// WithCountry returns a copy with the country replaced. nil clears it.
func (s Selection) WithCountry(c *Country) Selection {
	if c != nil {
		cp := *c
		c = &cp
	}
	s.Country = c
	return s
}

// WithIndicator returns a copy with the indicator replaced. nil clears it.
func (s Selection) WithIndicator(i *Indicator) Selection {
	if i != nil {
		cp := *i
		i = &cp
	}
	s.Indicator = i
	return s
}

// WithStart returns a copy with the range start replaced.
func (s Selection) WithStart(year int) Selection {
	s.Range.Start = year
	return s
}

// WithEnd returns a copy with the range end replaced.
func (s Selection) WithEnd(year int) Selection {
	s.Range.End = year
	return s
}
