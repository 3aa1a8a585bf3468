package domain

var Tables = []interface{}{
	// System
	&SysConfig{},
	&SysOpr{},
	&SysOprLog{},
	// Store
	&Item{},
	&Order{},
	&OrderItem{},
}
