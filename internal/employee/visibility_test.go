package employee_test

import (
	"encoding/json"

	"github.com/frahmantamala/hr-records/internal/core/access"
	"github.com/frahmantamala/hr-records/internal/employee"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Field visibility", func() {
	var record *employee.Employee

	BeforeEach(func() {
		record = newRecord(100, 42, "Owner")
	})

	Describe("Project", func() {
		DescribeTable("confidential fields follow ownership and role",
			func(id access.Identity, visible bool) {
				view := employee.Project(id, record)

				Expect(view.FirstName).To(Equal(record.FirstName))
				Expect(view.OfficeLocation).To(Equal(record.OfficeLocation))
				Expect(view.HasConfidential()).To(Equal(visible))
			},
			Entry("owner with standard role", access.Identity{SubjectID: 42, Role: access.RoleStandard}, true),
			Entry("owner with peer role", access.Identity{SubjectID: 42, Role: access.RolePeer}, true),
			Entry("privileged non-owner", access.Identity{SubjectID: 1, Role: access.RolePrivileged}, true),
			Entry("standard non-owner", access.Identity{SubjectID: 7, Role: access.RoleStandard}, false),
			Entry("peer non-owner", access.Identity{SubjectID: 9, Role: access.RolePeer}, false),
		)

		It("copies every confidential value for an authorized caller", func() {
			view := employee.Project(access.Identity{SubjectID: 42, Role: access.RoleStandard}, record)

			Expect(view.Salary).To(HaveValue(Equal(*record.Salary)))
			Expect(view.NationalID).To(HaveValue(Equal(*record.NationalID)))
			Expect(view.BankAccount).To(HaveValue(Equal(*record.BankAccount)))
			Expect(view.Address).To(HaveValue(Equal(*record.Address)))
			Expect(view.EmergencyContact).To(HaveValue(Equal(*record.EmergencyContact)))
			Expect(view.HireDate).To(HaveValue(Equal("2020-03-01")))
			Expect(view.ContractType).To(HaveValue(Equal(*record.ContractType)))
			Expect(view.DateOfBirth).To(BeNil())
		})

		It("does not alias the record", func() {
			view := employee.Project(access.Identity{SubjectID: 1, Role: access.RolePrivileged}, record)

			*view.Salary = 1
			Expect(*record.Salary).To(Equal(90000.0))
		})

		It("omits hidden fields from the JSON body", func() {
			view := employee.Project(access.Identity{SubjectID: 7, Role: access.RolePeer}, record)

			body, err := json.Marshal(view)
			Expect(err).NotTo(HaveOccurred())

			var fields map[string]interface{}
			Expect(json.Unmarshal(body, &fields)).To(Succeed())
			Expect(fields).To(HaveKey("phone"))
			for _, name := range []string{"salary", "date_of_birth", "national_id", "bank_account",
				"address", "emergency_contact", "hire_date", "contract_type"} {
				Expect(fields).NotTo(HaveKey(name))
			}
		})
	})

	Describe("Narrow", func() {
		proposed := employee.Changes{
			FirstName:        strPtr("Renamed"),
			Phone:            strPtr("+1555"),
			OfficeLocation:   strPtr("Berlin"),
			Address:          strPtr("2 Side St"),
			EmergencyContact: strPtr("Kim"),
			Salary:           floatPtr(200000),
			NationalID:       strPtr("X"),
		}

		It("passes everything for a privileged caller", func() {
			allowed := employee.Narrow(access.Identity{SubjectID: 1, Role: access.RolePrivileged}, record, proposed)
			Expect(allowed).To(Equal(proposed))
		})

		It("keeps only the contact fields for a non-privileged owner", func() {
			allowed := employee.Narrow(access.Identity{SubjectID: 42, Role: access.RoleStandard}, record, proposed)

			Expect(allowed.Fields()).To(Equal([]string{"phone", "office_location", "address", "emergency_contact"}))
			Expect(allowed.FirstName).To(BeNil())
			Expect(allowed.Salary).To(BeNil())
			Expect(allowed.NationalID).To(BeNil())
		})

		It("keeps nothing for a non-owner", func() {
			allowed := employee.Narrow(access.Identity{SubjectID: 7, Role: access.RoleStandard}, record, proposed)
			Expect(allowed.IsEmpty()).To(BeTrue())
		})

		It("never turns an omitted field into a clear", func() {
			allowed := employee.Narrow(access.Identity{SubjectID: 42, Role: access.RoleStandard}, record,
				employee.Changes{Phone: strPtr("+1")})

			Expect(allowed.Columns()).To(Equal(map[string]interface{}{"phone": "+1"}))
		})

		DescribeTable("is idempotent",
			func(id access.Identity) {
				once := employee.Narrow(id, record, proposed)
				twice := employee.Narrow(id, record, once)
				Expect(twice).To(Equal(once))
			},
			Entry("privileged", access.Identity{SubjectID: 1, Role: access.RolePrivileged}),
			Entry("standard owner", access.Identity{SubjectID: 42, Role: access.RoleStandard}),
			Entry("peer owner", access.Identity{SubjectID: 42, Role: access.RolePeer}),
			Entry("standard non-owner", access.Identity{SubjectID: 7, Role: access.RoleStandard}),
			Entry("peer non-owner", access.Identity{SubjectID: 9, Role: access.RolePeer}),
		)
	})

	Describe("Apply", func() {
		It("writes present fields only", func() {
			record.Apply(employee.Changes{Phone: strPtr("+49"), Salary: floatPtr(1)})

			Expect(record.Phone).To(Equal("+49"))
			Expect(*record.Salary).To(Equal(1.0))
			Expect(record.Address).To(HaveValue(Equal("1 Main St")))
		})
	})
})

var _ = Describe("UpdateEmployeeDTO", func() {
	It("converts dates and keeps omitted fields nil", func() {
		dto := employee.UpdateEmployeeDTO{Phone: strPtr("+1"), HireDate: strPtr("2021-05-04")}

		changes := dto.ToChanges()

		Expect(changes.Validate()).To(Succeed())
		Expect(changes.HireDate).NotTo(BeNil())
		Expect(changes.HireDate.Format("2006-01-02")).To(Equal("2021-05-04"))
		Expect(changes.Salary).To(BeNil())
		Expect(changes.Fields()).To(Equal([]string{"phone", "hire_date"}))
	})

	It("rejects malformed dates", func() {
		changes := employee.UpdateEmployeeDTO{DateOfBirth: strPtr("04/05/2021")}.ToChanges()
		Expect(changes.DateOfBirth).To(BeNil())
		Expect(changes.Validate()).To(HaveOccurred())
	})

	It("rejects a blank first name", func() {
		Expect(employee.UpdateEmployeeDTO{FirstName: strPtr("  ")}.ToChanges().Validate()).To(HaveOccurred())
	})

	It("rejects a negative salary", func() {
		Expect(employee.UpdateEmployeeDTO{Salary: floatPtr(-1)}.ToChanges().Validate()).To(HaveOccurred())
	})

	It("does not report invalid values in fields narrowing drops", func() {
		// Given
		owner := access.Identity{SubjectID: 42, Role: access.RoleStandard}
		record := newRecord(100, 42, "Owner")
		changes := employee.UpdateEmployeeDTO{
			Salary:      floatPtr(-1),
			DateOfBirth: strPtr("not a date"),
			Phone:       strPtr("+1"),
		}.ToChanges()

		// When
		allowed := employee.Narrow(owner, record, changes)

		// Then
		Expect(changes.Validate()).To(HaveOccurred())
		Expect(allowed.Validate()).To(Succeed())
		Expect(allowed.Fields()).To(Equal([]string{"phone"}))
	})
})

var _ = Describe("PageQuery", func() {
	It("defaults to the first page sorted by last name", func() {
		q, err := employee.NewPageQuery("", "", "", "")

		Expect(err).NotTo(HaveOccurred())
		Expect(q.Page).To(Equal(0))
		Expect(q.Size).To(Equal(employee.DefaultPageSize))
		Expect(q.OrderClause()).To(Equal("last_name ASC, id ASC"))
	})

	It("maps sort keys to columns", func() {
		q, err := employee.NewPageQuery("2", "10", "hireDate", "DESC")

		Expect(err).NotTo(HaveOccurred())
		Expect(q.Offset()).To(Equal(20))
		Expect(q.OrderClause()).To(Equal("hire_date DESC, id ASC"))
	})

	DescribeTable("rejects invalid input",
		func(page, size, sortBy, sortDir string) {
			_, err := employee.NewPageQuery(page, size, sortBy, sortDir)
			Expect(err).To(HaveOccurred())
		},
		Entry("negative page", "-1", "", "", ""),
		Entry("oversized page", "", "101", "", ""),
		Entry("zero size", "", "0", "", ""),
		Entry("unknown sort key", "", "", "salary", ""),
		Entry("unknown direction", "", "", "", "up"),
	)
})
