package moexApi

type rawSecurities struct {
	Securities table `json:"securities"`
	Marketdata table `json:"marketdata"`
}

type table struct {
	Columns []string `json:"columns"`
	Data    [][]any  `json:"data"`
}

// column returns the value of name in row i, or nil when absent.
func (t table) column(i int, name string) any {
	if i >= len(t.Data) {
		return nil
	}
	for j, c := range t.Columns {
		if c == name && j < len(t.Data[i]) {
			return t.Data[i][j]
		}
	}
	return nil
}
