package parserembed

import "time"

type Model struct {
	ID        int `db:"id,primaryKey"`
	CreatedAt time.Time
}

type Person struct {
	_ struct{} `orm:"entity"`
	Model

	Name string `db:"name"`
}

type Employee struct {
	time.Time
	Person
	_ struct{} `orm:"entity,table:staff"`

	Salary int `db:"salary"`
}
