package access_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/hr-records/internal/core/access"
)

type record struct{ owner int64 }

func (r record) OwnerSubjectID() int64 { return r.owner }

var _ = Describe("Evaluator", func() {
	const ownerID = int64(7)
	owned := record{owner: ownerID}

	DescribeTable("confidential visibility and employee modification",
		func(id access.Identity, expected bool) {
			Expect(access.CanViewConfidential(id, owned)).To(Equal(expected))
			Expect(access.CanModifyEmployee(id, owned)).To(Equal(expected))
		},
		Entry("privileged non-owner", access.Identity{SubjectID: 1, Role: access.RolePrivileged}, true),
		Entry("privileged owner", access.Identity{SubjectID: ownerID, Role: access.RolePrivileged}, true),
		Entry("standard owner", access.Identity{SubjectID: ownerID, Role: access.RoleStandard}, true),
		Entry("peer owner", access.Identity{SubjectID: ownerID, Role: access.RolePeer}, true),
		Entry("standard non-owner", access.Identity{SubjectID: 2, Role: access.RoleStandard}, false),
		Entry("peer non-owner", access.Identity{SubjectID: 2, Role: access.RolePeer}, false),
	)

	DescribeTable("absence decisions and full listing",
		func(role access.Role, expected bool) {
			id := access.Identity{SubjectID: ownerID, Role: role}
			Expect(access.CanDecideAbsence(id)).To(Equal(expected))
			Expect(access.CanListAllAbsences(id)).To(Equal(expected))
		},
		Entry("privileged", access.RolePrivileged, true),
		Entry("standard", access.RoleStandard, false),
		Entry("peer", access.RolePeer, false),
	)

	It("treats a missing record as owned by nobody", func() {
		id := access.Identity{SubjectID: ownerID, Role: access.RoleStandard}
		Expect(access.IsOwner(id, nil)).To(BeFalse())
		Expect(access.CanViewConfidential(id, nil)).To(BeFalse())
	})

	Describe("ParseRole", func() {
		It("accepts known roles case-insensitively", func() {
			r, err := access.ParseRole(" Privileged ")
			Expect(err).NotTo(HaveOccurred())
			Expect(r).To(Equal(access.RolePrivileged))
		})

		It("rejects unknown roles", func() {
			_, err := access.ParseRole("admin")
			Expect(err).To(HaveOccurred())
		})
	})
})
