package enums

// DataScope limits which departments' data a role can see.
type DataScope int

const (
	DataScopeAll          DataScope = 1
	DataScopeDeptAndChild DataScope = 2
	DataScopeDept         DataScope = 3
	DataScopeSelf         DataScope = 4
	DataScopeCustom       DataScope = 5
)

var dataScopeDescriptions = map[DataScope]string{
	DataScopeAll:          "All data",
	DataScopeDeptAndChild: "Own department and below",
	DataScopeDept:         "Own department",
	DataScopeSelf:         "Self only",
	DataScopeCustom:       "Custom",
}

func (d DataScope) Value() int {
	return int(d)
}

func (d DataScope) Description() string {
	return dataScopeDescriptions[d]
}

func (d DataScope) Valid() bool {
	_, ok := dataScopeDescriptions[d]
	return ok
}

func (d DataScope) MarshalJSON() ([]byte, error) {
	return MarshalBaseEnum(d)
}

func (d *DataScope) UnmarshalJSON(data []byte) error {
	v, err := unmarshalValue(data, "dataScope", func(v int) bool { return DataScope(v).Valid() })
	if err != nil {
		return err
	}
	*d = DataScope(v)
	return nil
}
