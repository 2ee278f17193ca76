package enums

type DisEnableStatus int

const (
	StatusEnable  DisEnableStatus = 1
	StatusDisable DisEnableStatus = 2
)

func (s DisEnableStatus) Value() int {
	return int(s)
}

func (s DisEnableStatus) Description() string {
	switch s {
	case StatusEnable:
		return "Enabled"
	case StatusDisable:
		return "Disabled"
	default:
		return ""
	}
}

func (s DisEnableStatus) Valid() bool {
	return s == StatusEnable || s == StatusDisable
}

func (s DisEnableStatus) MarshalJSON() ([]byte, error) {
	return MarshalBaseEnum(s)
}

func (s *DisEnableStatus) UnmarshalJSON(data []byte) error {
	v, err := unmarshalValue(data, "status", func(v int) bool { return DisEnableStatus(v).Valid() })
	if err != nil {
		return err
	}
	*s = DisEnableStatus(v)
	return nil
}
