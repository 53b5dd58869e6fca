package model

// Department identifies the academic department a user belongs to.
type Department int

const (
	DepartmentICT Department = 1
	DepartmentET  Department = 2
	DepartmentBST Department = 3
)

var departmentNames = map[Department]string{
	DepartmentICT: "ICT",
	DepartmentET:  "ET",
	DepartmentBST: "BST",
}

func (d Department) String() string {
	if name, ok := departmentNames[d]; ok {
		return name
	}
	return "Unknown"
}

// User is a profile as returned by the remote API. The Questions field is
// populated only by the userinfo endpoint; plain profile lookups leave it
// empty.
type User struct {
	ID         int        `json:"userId"`
	FirstName  string     `json:"firstName"`
	LastName   string     `json:"lastName"`
	Email      string     `json:"email"`
	Department Department `json:"department"`
	BatchNo    int        `json:"batchNo"`
	Roles      []string   `json:"roles"`
	Questions  []Question `json:"questions"`
}

// DisplayName is the full name shown next to questions and answers.
func (u *User) DisplayName() string {
	return u.FirstName + " " + u.LastName
}
