/**
 * 服务层:集合对账
 * @author: sun977
 * @date: 2025.11.20
 * @description: 计算期望集合与当前集合之间的增删差异,只动差异部分
 * @func: ReconcileKeys / ReconcileGrants
 */
package auth

import (
	"menuguard/internal/model"
)

// ReconcileKeys 计算ID集合差异
// desired 为期望全集, current 为当前全集
// 返回需要新建的ID列表和需要移除的ID列表,重复的期望项去重
func ReconcileKeys(desired, current []uint) (toAdd, toRemove []uint) {
	desiredSet := make(map[uint]struct{}, len(desired))
	for _, id := range desired {
		desiredSet[id] = struct{}{}
	}
	currentSet := make(map[uint]struct{}, len(current))
	for _, id := range current {
		currentSet[id] = struct{}{}
	}

	for _, id := range desired {
		// desired 中重复出现的ID只新增一次
		if _, ok := currentSet[id]; !ok {
			currentSet[id] = struct{}{}
			toAdd = append(toAdd, id)
		}
	}
	for _, id := range current {
		if _, ok := desiredSet[id]; !ok {
			toRemove = append(toRemove, id)
		}
	}
	return toAdd, toRemove
}

// ReconcileGrants 计算菜单授权集合差异
// 已存在的授权行不做原地更新,授权标记以新增时写入的为准
// 返回需要新建的授权行和需要移除的菜单ID列表
func ReconcileGrants(desired []model.MenuGrantSpec, current []*model.RoleMenu) (toAdd []*model.RoleMenu, toRemove []uint) {
	desiredByMenu := make(map[uint]model.MenuGrantSpec, len(desired))
	order := make([]uint, 0, len(desired))
	for _, spec := range desired {
		if _, seen := desiredByMenu[spec.MenuID]; !seen {
			order = append(order, spec.MenuID)
		}
		// 同一菜单出现多次时取最后一次声明
		desiredByMenu[spec.MenuID] = spec
	}

	currentSet := make(map[uint]struct{}, len(current))
	for _, grant := range current {
		currentSet[grant.MenuID] = struct{}{}
	}

	for _, menuID := range order {
		if _, ok := currentSet[menuID]; !ok {
			spec := desiredByMenu[menuID]
			toAdd = append(toAdd, &model.RoleMenu{
				MenuID:      spec.MenuID,
				GrantCreate: spec.GrantCreate,
				GrantUpdate: spec.GrantUpdate,
				GrantDelete: spec.GrantDelete,
				IsActive:    true,
			})
		}
	}
	for _, grant := range current {
		if _, ok := desiredByMenu[grant.MenuID]; !ok {
			toRemove = append(toRemove, grant.MenuID)
		}
	}
	return toAdd, toRemove
}
