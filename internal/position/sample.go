package position

// Sample returns a small demo organisation used when no data source is
// configured.
func Sample() []Position {
	rec := func(id, name, sup, title, job, dept, cat, grade, loc string, cost float64) Position {
		p := Position{
			ID:               id,
			EmployeeName:     Ref(name),
			PositionTitle:    title,
			JobName:          job,
			PositionNumber:   "PN-" + id,
			Department:       dept,
			EmployeeCategory: cat,
			Grade:            grade,
			Location:         loc,
			ProformaCost:     cost,
		}
		if sup != "" {
			p.SupervisorID = Ref(sup)
			p.SupervisorPositionNumber = Ref("PN-" + sup)
		}
		return p
	}
	return []Position{
		rec("1", "Alice Wonderland", "", "CEO", "Chief Executive Officer", "Executive", "Staff", "CSuite", "NewYork", 300000),
		rec("2", "Bob The Builder", "1", "CTO", "Chief Technology Officer", "Technology", "Staff", "CSuite", "SanFrancisco", 250000),
		rec("3", "Charlie Brown", "1", "COO", "Chief Operating Officer", "Operations", "Staff", "CSuite", "NewYork", 240000),
		rec("4", "Diana Prince", "2", "VP Engineering", "VP Engineering", "Technology", "Staff", "VP", "Remote", 200000),
		rec("5", "Edward Scissorhands", "4", "Software Engineer Lead", "Team Lead", "Technology", "Staff", "L5", "Remote", 150000),
		rec("6", "Fiona Apple", "4", "Senior Software Engineer", "Senior SDE", "Technology", "Staff", "L4", "Remote", 140000),
		rec("7", "Gary Goodsupport", "3", "Support Manager", "Support Manager", "Operations", "PSA", "L4", "London", 90000),
		rec("8", "Helen Helpful", "7", "Support Specialist", "Support Spec.", "Operations", "LSC", "L2", "London", 60000),
		rec("9", "Ian Intern", "6", "Software Intern", "Intern SDE", "Technology", "Intern", "InternG", "Remote", 40000),
		rec("10", "Jack Consultant", "2", "Cloud Architect", "Consultant Arch.", "Technology", "IndividualConsultant", "ConsultantG", "Remote", 180000),
		rec("11", "Olivia Operator", "3", "Operations Analyst", "Ops Analyst", "Operations", "Staff", "L3", "NewYork", 80000),
		rec("12", "Henry Human", "1", "VP Human Resources", "VP HR", "Human Resources", "Staff", "VP", "NewYork", 190000),
		rec("13", "Rachel Recruiter", "12", "HR Specialist", "HR Spec.", "Human Resources", "PSA", "L3", "NewYork", 75000),
		rec("14", "Kevin Kandidate", "13", "HR Intern", "Intern HR", "Human Resources", "Intern", "InternG", "NewYork", 35000),
	}
}
