package parsernested

type Order struct {
	_ struct{} `orm:"entity"`

	ID    int          `db:"id,primaryKey"`
	Lines []*OrderLine `rel:"one_to_many"`
}

type OrderLine struct {
	_ struct{} `orm:"entity"`

	ID      int      `db:"id,primaryKey"`
	Product *Product `rel:"many_to_one"`
}

type Product struct {
	_ struct{} `orm:"entity"`

	ID         int      `db:"id,primaryKey"`
	LastOrder  Order    `rel:"many_to_one"`
	Substitute *Product `rel:"one_to_one"`
}
